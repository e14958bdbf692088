package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram-app/backend/internal/models"
)

var ErrSelfSubscribe = errors.New("subscribing to yourself is not allowed")

// UserService serves user reads and the subscription toggle backing
// the is_subscribed projection.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by username. limit <= 0 means no limit.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("username")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IsSubscribed reports whether the requester follows the author. An
// anonymous requester (nil) is never subscribed, and a failed lookup
// projects false rather than surfacing an error.
func (s *UserService) IsSubscribed(ctx context.Context, requesterID *uuid.UUID, authorID uuid.UUID) bool {
	if requesterID == nil {
		return false
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", *requesterID, authorID).
		Count(&count).Error
	if err != nil {
		log.Printf("subscription lookup failed for user %s: %v", *requesterID, err)
		return false
	}
	return count > 0
}

// SubscribedSet reports which of the given authors the requester
// follows, resolved in one query for list projections. A nil requester
// follows nobody, and a failed lookup projects an empty set.
func (s *UserService) SubscribedSet(ctx context.Context, requesterID *uuid.UUID, authorIDs []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(authorIDs))
	if requesterID == nil || len(authorIDs) == 0 {
		return set
	}
	var subs []models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", *requesterID, authorIDs).
		Find(&subs).Error
	if err != nil {
		log.Printf("subscription lookup failed for user %s: %v", *requesterID, err)
		return set
	}
	for _, sub := range subs {
		set[sub.AuthorID] = true
	}
	return set
}

// Subscribe follows an author, idempotently.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.Subscription, bool, error) {
	if userID == authorID {
		return nil, false, ErrSelfSubscribe
	}
	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(&sub)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	// Fresh destination: a lost insert leaves sub with an id that was
	// never written, and gorm would add it to the lookup conditions.
	var row models.Subscription
	if err := s.db.WithContext(ctx).
		First(&row, "user_id = ? AND author_id = ?", userID, authorID).Error; err != nil {
		return nil, false, err
	}
	return &row, created, nil
}

// Unsubscribe removes the follow row if present and succeeds either
// way.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	return res.RowsAffected > 0, res.Error
}
