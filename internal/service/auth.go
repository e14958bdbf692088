package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram-app/backend/internal/models"
)

// LookupField selects which user column a credential pair is matched
// against. It is fixed at startup, not discovered per request.
type LookupField string

const (
	LookupEmail    LookupField = "email"
	LookupUsername LookupField = "username"
)

const tokenCacheTTL = 15 * time.Minute

// AuthService authenticates users and issues opaque bearer tokens.
// The Redis client is optional; without it every token validation
// goes straight to the database.
type AuthService struct {
	db     *gorm.DB
	cache  *redis.Client
	lookup LookupField
}

func NewAuthService(db *gorm.DB, cache *redis.Client, lookup LookupField) *AuthService {
	if lookup == "" {
		lookup = LookupEmail
	}
	return &AuthService{db: db, cache: cache, lookup: lookup}
}

// Register creates an account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req RegisterInput) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Login authenticates a credential pair against the configured lookup
// column. Unknown identity, wrong password and deactivated account all
// fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identity, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(string(s.lookup)+" = ?", identity).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// IssueToken returns the user's live token, creating one on first use.
// A concurrent first login is resolved by the unique constraint on
// user_id: whichever insert loses re-reads the winner's key.
func (s *AuthService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	var token models.AuthToken
	err := s.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}
	token = models.AuthToken{UserID: userID, Key: key}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&token).Error; err != nil {
		return "", err
	}
	// Re-read into a fresh struct: if the insert lost the race, token
	// carries a primary key that never hit the table and gorm would
	// fold it into the lookup.
	var live models.AuthToken
	if err := s.db.WithContext(ctx).First(&live, "user_id = ?", userID).Error; err != nil {
		return "", err
	}
	return live.Key, nil
}

// ValidateToken resolves a bearer key to a user id, consulting the
// Redis cache first when one is configured.
func (s *AuthService) ValidateToken(ctx context.Context, key string) (uuid.UUID, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, tokenCacheKey(key)).Result(); err == nil {
			if id, perr := uuid.Parse(cached); perr == nil {
				return id, nil
			}
		}
	}

	var token models.AuthToken
	if err := s.db.WithContext(ctx).Preload("User").First(&token, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrInvalidToken
		}
		return uuid.Nil, err
	}
	if !token.User.IsActive {
		return uuid.Nil, ErrInvalidToken
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tokenCacheKey(key), token.UserID.String(), tokenCacheTTL).Err(); err != nil {
			log.Printf("token cache set failed: %v", err)
		}
	}
	return token.UserID, nil
}

// RevokeToken deletes the user's token and evicts it from the cache.
func (s *AuthService) RevokeToken(ctx context.Context, userID uuid.UUID) error {
	var token models.AuthToken
	err := s.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&token).Error; err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, tokenCacheKey(token.Key)).Err(); err != nil {
			log.Printf("token cache delete failed: %v", err)
		}
	}
	return nil
}

// generateTokenKey produces a 40-hex-char opaque key.
func generateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func tokenCacheKey(key string) string {
	return "auth_token:" + key
}
