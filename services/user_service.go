package services

import (
	"errors"
	"time"

	"github.com/ChubiniShato/pku-diet-app-sub001/config"
	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

type ProfileInput struct {
	FullName       string  `json:"full_name"`
	Birthday       string  `json:"birthday"` // sent as YYYY-MM-DD
	HeightCm       float64 `json:"height_cm"`
	WeightKg       float64 `json:"weight_kg"`
	CaregiverEmail string  `json:"caregiver_email"`
	MFAEnabled     *bool   `json:"mfa_enabled"`
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	age := 0
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	profile := map[string]interface{}{
		"id":              user.ID,
		"email":           user.Email,
		"full_name":       user.FullName,
		"birthday":        user.Birthday.Format("2006-01-02"),
		"age":             age,
		"height_cm":       user.HeightCm,
		"weight_kg":       user.WeightKg,
		"caregiver_email": user.CaregiverEmail,
		"mfa_enabled":     user.MFAEnabled,
	}

	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		profile["bmi"] = utils.Round2(bmi)
		profile["bmi_category"] = utils.BMICategory(bmi)
	}

	return profile, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}

	if input.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", input.Birthday)
		if err == nil {
			user.Birthday = birthday
		}
	}

	if input.HeightCm > 0 {
		user.HeightCm = input.HeightCm
	}
	if input.WeightKg > 0 {
		user.WeightKg = input.WeightKg
	}
	if input.CaregiverEmail != "" {
		user.CaregiverEmail = input.CaregiverEmail
	}
	if input.MFAEnabled != nil {
		user.MFAEnabled = *input.MFAEnabled
	}

	return config.DB.Save(&user).Error
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// DeleteUser soft-disables the account; menu and intake history stays.
func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}
