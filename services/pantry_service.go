package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ChubiniShato/pku-diet-app-sub001/models"
)

// DefaultCostPerGram is the tier-3 cost estimate used when an item has
// neither pantry stock nor a recorded market price.
const DefaultCostPerGram = 0.02

// ExpiryNoticeDays is the look-ahead window for the planning-time expiry
// notice.
const ExpiryNoticeDays = 3

type PantryAvailability struct {
	IsAvailable            bool    `json:"is_available"`            // any stock at all
	IsSufficient           bool    `json:"is_sufficient"`           // stock >= needed
	TotalQuantityAvailable float64 `json:"total_quantity_available"` // grams
}

// ReservationLedger tracks pantry grams claimed during one planning run so
// two slots of the same run cannot allocate the same stock twice. It is
// in-memory only, owned by the run that created it, and must be cleared (or
// simply dropped) between independent runs. The mutex makes it safe if
// candidate resolution is ever parallelized within a run.
type ReservationLedger struct {
	RunID string

	mu       sync.Mutex
	reserved map[string]float64 // FoodRef.Key() -> grams
}

func NewReservationLedger() *ReservationLedger {
	return &ReservationLedger{
		RunID:    uuid.NewString(),
		reserved: make(map[string]float64),
	}
}

// Reserve claims amountGrams of the item the rows belong to. It fails
// without any state change when the unreserved remainder is short. A
// non-positive amount is a caller bug and surfaces as an error.
func (l *ReservationLedger) Reserve(rows []models.PantryItem, amountGrams float64) (bool, error) {
	if amountGrams <= 0 {
		return false, errors.New("reservation amount must be positive")
	}
	if len(rows) == 0 {
		return false, nil
	}
	key := rows[0].Ref().Key()

	l.mu.Lock()
	defer l.mu.Unlock()

	avail := stockGrams(rows, time.Now()) - l.reserved[key]
	if amountGrams > avail {
		return false, nil
	}
	l.reserved[key] += amountGrams
	return true, nil
}

// Reserved returns the grams currently claimed for an item key.
func (l *ReservationLedger) Reserved(key string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved[key]
}

// Clear resets the ledger for reuse. There is no automatic expiry.
func (l *ReservationLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reserved = make(map[string]float64)
}

type PantryService struct {
	db *gorm.DB
}

func NewPantryService(db *gorm.DB) *PantryService { return &PantryService{db: db} }

// RowsFor loads a patient's stock rows for one exact item, soonest expiry
// first. Expired rows are filtered by the callers that care, so the expired
// query can reuse this.
func (s *PantryService) RowsFor(userID uint, ref models.FoodRef) ([]models.PantryItem, error) {
	var rows []models.PantryItem
	err := s.db.
		Where("user_id = ? AND item_type = ? AND item_id = ? AND available = ?",
			userID, ref.Type, ref.ID, true).
		Order("expiry_date ASC").
		Find(&rows).Error
	return rows, err
}

// CheckPantryAvailability sums non-expired stock for the exact item.
// IsAvailable and IsSufficient are deliberately distinct: a single gram in
// stock makes the item available even when the needed amount is short.
func (s *PantryService) CheckPantryAvailability(ref models.FoodRef, userID uint, neededGrams float64) (PantryAvailability, error) {
	rows, err := s.RowsFor(userID, ref)
	if err != nil {
		return PantryAvailability{}, err
	}
	return availabilityFromRows(rows, neededGrams, time.Now()), nil
}

func availabilityFromRows(rows []models.PantryItem, neededGrams float64, today time.Time) PantryAvailability {
	total := stockGrams(rows, today)
	return PantryAvailability{
		IsAvailable:            total > 0,
		IsSufficient:           total >= neededGrams && total > 0,
		TotalQuantityAvailable: total,
	}
}

// stockGrams sums quantity across non-expired, available rows.
func stockGrams(rows []models.PantryItem, today time.Time) float64 {
	var total float64
	for _, r := range rows {
		if !r.Available || r.Expired(dayStart(today)) {
			continue
		}
		total += r.QuantityGrams
	}
	return total
}

// CurrentCost resolves a cost estimate for quantityGrams of an item. Exactly
// one tier answers per call:
//  1. pantry cost-per-gram when the patient holds any non-expired stock,
//  2. the lowest current market price normalized per gram,
//  3. a fixed default estimate.
func (s *PantryService) CurrentCost(ref models.FoodRef, quantityGrams float64, userID uint) (float64, error) {
	if quantityGrams <= 0 {
		return 0, nil
	}

	rows, err := s.RowsFor(userID, ref)
	if err != nil {
		return 0, err
	}
	if perGram, ok := pantryCostPerGram(rows, time.Now()); ok {
		return perGram * quantityGrams, nil
	}

	var prices []models.PriceEntry
	if err := s.db.
		Where("item_type = ? AND item_id = ? AND current = ?", ref.Type, ref.ID, true).
		Find(&prices).Error; err != nil {
		return 0, err
	}
	if perGram, ok := bestPricePerGram(prices); ok {
		return perGram * quantityGrams, nil
	}

	return DefaultCostPerGram * quantityGrams, nil
}

// pantryCostPerGram is a quantity-weighted average over non-expired rows.
func pantryCostPerGram(rows []models.PantryItem, today time.Time) (float64, bool) {
	var grams, cost float64
	for _, r := range rows {
		if !r.Available || r.Expired(dayStart(today)) || r.QuantityGrams <= 0 {
			continue
		}
		grams += r.QuantityGrams
		cost += r.QuantityGrams * r.CostPerGram
	}
	if grams <= 0 {
		return 0, false
	}
	return cost / grams, true
}

func bestPricePerGram(prices []models.PriceEntry) (float64, bool) {
	best := 0.0
	found := false
	for i := range prices {
		pg := prices[i].PerGram()
		if pg <= 0 {
			continue
		}
		if !found || pg < best {
			best = pg
			found = true
		}
	}
	return best, found
}

// ExpiringSoonItems lists stock whose expiry falls within
// [today, today+withinDays], inclusive. Already-expired rows belong to
// ExpiredItems instead.
func (s *PantryService) ExpiringSoonItems(userID uint, withinDays int) ([]models.PantryItem, error) {
	today := dayStart(time.Now())
	until := today.AddDate(0, 0, withinDays)
	var rows []models.PantryItem
	err := s.db.
		Where("user_id = ? AND available = ? AND expiry_date >= ? AND expiry_date <= ?",
			userID, true, today, until).
		Order("expiry_date ASC").
		Find(&rows).Error
	return rows, err
}

// NotifyExpiringSoon raises an informational alert when the patient holds
// stock close to expiry, so planned pantry items get used before they spoil.
// Best-effort: lookup failures stay silent, like the rest of the alert path.
func (s *PantryService) NotifyExpiringSoon(userID uint, withinDays int) {
	rows, err := s.ExpiringSoonItems(userID, withinDays)
	if err != nil || len(rows) == 0 {
		return
	}
	EmitAlert(userID, "warning", expiryAlertMessage(rows, withinDays))
}

func expiryAlertMessage(rows []models.PantryItem, withinDays int) string {
	if len(rows) == 1 {
		return fmt.Sprintf("1 pantry item expires within %d days; plan it first", withinDays)
	}
	return fmt.Sprintf("%d pantry items expire within %d days; plan them first", len(rows), withinDays)
}

func (s *PantryService) ExpiredItems(userID uint) ([]models.PantryItem, error) {
	today := dayStart(time.Now())
	var rows []models.PantryItem
	err := s.db.
		Where("user_id = ? AND available = ? AND expiry_date < ?", userID, true, today).
		Order("expiry_date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *PantryService) ListItems(userID uint) ([]models.PantryItem, error) {
	var rows []models.PantryItem
	err := s.db.
		Where("user_id = ? AND available = ?", userID, true).
		Order("expiry_date ASC").
		Find(&rows).Error
	return rows, err
}

// AddItem stocks a new row. Dishes cannot be stocked, only products.
func (s *PantryService) AddItem(userID uint, item *models.PantryItem) error {
	ref := item.Ref()
	if !ref.Valid() {
		return errors.New("invalid item reference")
	}
	if ref.Type != models.EntryProduct && ref.Type != models.EntryCustomProduct {
		return errors.New("only products can be stocked in the pantry")
	}
	if item.QuantityGrams <= 0 {
		return errors.New("quantity must be positive")
	}
	item.UserID = userID
	item.Available = true
	return s.db.Create(item).Error
}

func (s *PantryService) UpdateItem(userID, itemID uint, quantityGrams float64, expiry *time.Time, location string) (*models.PantryItem, error) {
	var row models.PantryItem
	if err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&row).Error; err != nil {
		return nil, err
	}
	if quantityGrams > 0 {
		row.QuantityGrams = quantityGrams
		row.Available = true
	}
	if expiry != nil {
		row.ExpiryDate = *expiry
	}
	if location != "" {
		row.Location = location
	}
	if err := s.db.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// RemoveItem soft-removes a row so purchase history survives.
func (s *PantryService) RemoveItem(userID, itemID uint) error {
	res := s.db.Model(&models.PantryItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("available", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordPrice stores a market price observation and marks it the current one
// for the item in the same store.
func (s *PantryService) RecordPrice(entry *models.PriceEntry) error {
	if !entry.Ref().Valid() {
		return errors.New("invalid item reference")
	}
	if entry.PricePerUnit <= 0 || entry.UnitGrams <= 0 {
		return errors.New("price and pack size must be positive")
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	entry.Current = true
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PriceEntry{}).
			Where("item_type = ? AND item_id = ? AND store_name = ? AND current = ?",
				entry.ItemType, entry.ItemID, entry.StoreName, true).
			Update("current", false).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// Consume decrements stock rows soonest-expiry-first after a planned entry
// is actually eaten. Rows drained to zero are flagged unavailable rather
// than deleted, keeping the purchase history.
func (s *PantryService) Consume(userID uint, ref models.FoodRef, grams float64) error {
	if grams <= 0 {
		return errors.New("consume amount must be positive")
	}
	rows, err := s.RowsFor(userID, ref)
	if err != nil {
		return err
	}
	today := dayStart(time.Now())
	remaining := grams
	for i := range rows {
		if remaining <= 0 {
			break
		}
		r := &rows[i]
		if r.Expired(today) || r.QuantityGrams <= 0 {
			continue
		}
		take := r.QuantityGrams
		if take > remaining {
			take = remaining
		}
		r.QuantityGrams -= take
		remaining -= take
		if r.QuantityGrams <= 0 {
			r.QuantityGrams = 0
			r.Available = false
		}
		if err := s.db.Save(r).Error; err != nil {
			return err
		}
	}
	return nil
}
