// Package auth covers register/login/confirm for API accounts. Accounts are
// identity records, distinct from the domain users the handlers manage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/shop_api/internal/apperror"
	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/validate"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid or expired confirmation token")

const accessTokenTTL = 15 * time.Minute
const confirmationTokenTTL = 24 * time.Hour

type Service struct {
	DB        *gorm.DB
	JWTSecret []byte
	Queue     handler.Publisher
}

func (s *Service) Register(ctx context.Context, emailAddr, password string) (*models.Account, error) {
	var c validate.Checker
	c.Email("email", emailAddr)
	c.Required("password", password)
	if err := c.Err(); err != nil {
		return nil, err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &models.Account{
		Email:             emailAddr,
		PasswordHash:      string(pwHash),
		Role:              "user",
		ConfirmationToken: uuid.NewString(),
		TokenExpiry:       time.Now().UTC().Add(confirmationTokenTTL),
	}

	tx := s.DB.WithContext(ctx).Where("email = ?", emailAddr).FirstOrCreate(acct)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("account already exists: %w", apperror.ErrConflict)
	}

	if s.Queue != nil {
		task := handler.EmailTask{
			Type:   handler.TaskWelcomeEmail,
			To:     acct.Email,
			UserID: acct.ID,
			Token:  acct.ConfirmationToken,
		}
		if err := s.Queue.PublishEvent(ctx, handler.TopicEmailTasks, fmt.Sprint(acct.ID), task); err != nil {
			logging.FromContext(ctx).Warn("welcome_email_enqueue_failed", "error", err)
		}
	}

	return acct, nil
}

func (s *Service) Login(ctx context.Context, emailAddr, password string) (string, error) {
	var acct models.Account
	if err := s.DB.WithContext(ctx).Where("email = ?", emailAddr).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := Claims{
		Role: acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(acct.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Confirm consumes the confirmation token mailed at registration.
func (s *Service) Confirm(ctx context.Context, accountID uint, token string) error {
	var acct models.Account
	if err := s.DB.WithContext(ctx).First(&acct, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("account not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if token == "" || acct.ConfirmationToken != token || time.Now().UTC().After(acct.TokenExpiry) {
		return ErrInvalidToken
	}

	acct.Confirmed = true
	acct.ConfirmationToken = ""
	return s.DB.WithContext(ctx).Save(&acct).Error
}
