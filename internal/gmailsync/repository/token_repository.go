package repository

import (
	"errors"
	"time"

	"emailbudget-backend/internal/gmailsync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new instance of tokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

func (r *tokenRepository) Get(userID string) (*domain.TokenSet, error) {
	var token domain.TokenSet
	err := r.db.Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// Save replaces the stored token set for the user; one mail account per
// user.
func (r *tokenRepository) Save(token *domain.TokenSet) error {
	existing, err := r.Get(token.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		token.ID = existing.ID
	} else if token.ID == "" {
		token.ID = uuid.New().String()
	}
	token.UpdatedAt = time.Now()
	return r.db.Save(token).Error
}

func (r *tokenRepository) UpdateAccess(userID, accessToken string, expiresAt time.Time) error {
	return r.db.Model(&domain.TokenSet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"expires_at":   expiresAt,
			"updated_at":   time.Now(),
		}).Error
}

func (r *tokenRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.TokenSet{}).Error
}

// credentialsRepository implements CredentialsRepository interface
type credentialsRepository struct {
	db *gorm.DB
}

// NewCredentialsRepository creates a new instance of credentialsRepository
func NewCredentialsRepository(db *gorm.DB) CredentialsRepository {
	return &credentialsRepository{
		db: db,
	}
}

func (r *credentialsRepository) Get(userID string) (*domain.OAuthCredentials, error) {
	var creds domain.OAuthCredentials
	err := r.db.Where("user_id = ?", userID).First(&creds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

func (r *credentialsRepository) Save(creds *domain.OAuthCredentials) error {
	existing, err := r.Get(creds.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		creds.ID = existing.ID
	} else if creds.ID == "" {
		creds.ID = uuid.New().String()
	}
	creds.UpdatedAt = time.Now()
	return r.db.Save(creds).Error
}

func (r *credentialsRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.OAuthCredentials{}).Error
}
