package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// SubscriptionService manages directed follower edges between users.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// AuthorSummary is an author with a preview of their recipes.
type AuthorSummary struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// Subscribe makes userID follow authorID. Following yourself is rejected.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorSummary, error) {
	author, err := s.user(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, FieldError("errors", "You cannot subscribe to yourself.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflict("You are already subscribed to this user.")
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Omit("Author").Create(&sub).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflict("You are already subscribed to this user.")
		}
		return nil, err
	}

	return s.summarize(ctx, author, recipesLimit)
}

// Unsubscribe removes the edge; it is an error when there is none.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.user(ctx, authorID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingRelation("You are not subscribed to this user.")
	}
	return nil
}

// ListSubscriptions pages through the authors userID follows, oldest
// subscription first. recipesLimit <= 0 means no limit on previews.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uint, page Page, recipesLimit int) (*PageResult[AuthorSummary], error) {
	base := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("user_id = ?", userID)

	var count int64
	if err := base.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	var subs []models.Subscription
	if err := base.Session(&gorm.Session{}).
		Preload("Author").
		Order("subscriptions.id").
		Scopes(Paginate(page)).
		Find(&subs).Error; err != nil {
		return nil, err
	}

	items := make([]AuthorSummary, 0, len(subs))
	for i := range subs {
		summary, err := s.summarize(ctx, &subs[i].Author, recipesLimit)
		if err != nil {
			return nil, err
		}
		items = append(items, *summary)
	}
	return &PageResult[AuthorSummary]{Items: items, Count: count, Page: page}, nil
}

// SubscribedSet reports which of authorIDs userID follows.
func (s *SubscriptionService) SubscribedSet(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *SubscriptionService) summarize(ctx context.Context, author *models.User, recipesLimit int) (*AuthorSummary, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	q := db.Where("author_id = ?", author.ID).Order("created_at DESC").Order("id DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return &AuthorSummary{Author: *author, Recipes: recipes, RecipesCount: count}, nil
}

func (s *SubscriptionService) user(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
