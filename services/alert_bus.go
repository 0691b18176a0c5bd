package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

type alertDeps struct {
	db *gorm.DB
	rt *RealtimeHub
	ps *PushService
}

var _alert alertDeps

func InitAlertDeps(db *gorm.DB, rt *RealtimeHub, ps *PushService) {
	_alert = alertDeps{db: db, rt: rt, ps: ps}
}

// EmitBreachAlert fans a norm-breach out to every channel: persisted alert,
// websocket, mobile push, and email to the patient plus caregiver when one
// is on file. Safe to call anywhere; delivery failures never propagate into
// planning.
func EmitBreachAlert(userID uint, date time.Time, messages []string) {
	if _alert.db == nil {
		return // not initialized
	}
	msg := strings.Join(messages, "; ")
	a := &models.Alert{UserID: userID, Type: "breach", Message: msg, Date: date, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastEvent(userID, map[string]any{
			"kind":  "norm.breach",
			"date":  date.Format("2006-01-02"),
			"alert": a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "Diet limit exceeded", msg, map[string]string{
			"type": "breach", "alertId": fmt.Sprintf("%d", a.ID),
		})
	}

	var user models.User
	if err := _alert.db.First(&user, userID).Error; err == nil {
		dateStr := date.Format("2006-01-02")
		_ = utils.SendBreachEmail(user.Email, dateStr, messages)
		if user.CaregiverEmail != "" {
			_ = utils.SendBreachEmail(user.CaregiverEmail, dateStr, messages)
		}
	}
}

// EmitAlert persists and broadcasts a plain informational alert.
func EmitAlert(userID uint, typ, message string) {
	if _alert.db == nil {
		return
	}
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	_ = _alert.db.Create(a).Error

	if _alert.rt != nil {
		_alert.rt.BroadcastEvent(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
	if _alert.ps != nil {
		_alert.ps.PushToUser(userID, "New Alert", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}
