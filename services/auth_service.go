package services

import (
	"errors"
	"fmt"

	"github.com/ChubiniShato/pku-diet-app-sub001/config"
	"github.com/ChubiniShato/pku-diet-app-sub001/models"
	"github.com/ChubiniShato/pku-diet-app-sub001/utils"
)

func RegisterUser(email, password, fullName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}

	result := config.DB.Create(&user)
	return result.Error
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found or disabled")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	if user.MFAEnabled {
		code := utils.GenerateRandomToken(6)
		user.MFACode = code
		if err := config.DB.Save(&user).Error; err != nil {
			return "", err
		}
		if err := utils.SendMFAEmail(user.Email, code); err != nil {
			return "", fmt.Errorf("failed to send MFA code: %w", err)
		}
		return "", errors.New("mfa_required")
	}

	return utils.GenerateJWT(user.Email)
}

// VerifyMFA checks the emailed code and issues the JWT on match.
func VerifyMFA(email, code string) (string, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return "", errors.New("user not found or disabled")
	}
	if user.MFACode == "" || user.MFACode != code {
		return "", errors.New("invalid MFA code")
	}
	user.MFACode = ""
	if err := config.DB.Save(&user).Error; err != nil {
		return "", err
	}
	return utils.GenerateJWT(user.Email)
}
