package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages accounts, passwords and avatars.
type UserService struct {
	db     *gorm.DB
	images ImageStore
}

func NewUserService(db *gorm.DB, images ImageStore) *UserService {
	return &UserService{db: db, images: images}
}

// Register creates an account. Email and username must be unused.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := s.db.WithContext(ctx)

	verr := NewValidationError()
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		verr.Add("email", "A user with that email already exists.")
	}
	if err := db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		verr.Add("username", "A user with that username already exists.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflict("A user with that email or username already exists.")
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().Uint("new_user_id", user.ID).Msg("user registered")
	return user, nil
}

// ListUsers returns one page of users ordered by id.
func (s *UserService) ListUsers(ctx context.Context, page Page) (*PageResult[models.User], error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Scopes(Paginate(page)).Find(&users).Error; err != nil {
		return nil, err
	}
	return &PageResult[models.User]{Items: users, Count: count, Page: page}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, FieldError("non_field_errors", "Unable to log in with provided credentials.")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, FieldError("non_field_errors", "Unable to log in with provided credentials.")
	}
	return &user, nil
}

func (s *UserService) SetPassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return FieldError("current_password", "Invalid password.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
}

// SetAvatar stores a base64 data URI image as the user's avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, dataURI string) (string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", FieldError("avatar", err.Error())
	}
	url, err := s.images.Save(ctx, ImageKey("users/avatars", img), img)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		s.removeImage(ctx, url)
		return "", err
	}
	s.removeImage(ctx, user.Avatar)
	return url, nil
}

// DeleteAvatar clears the user's avatar. Clearing an empty avatar is fine.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", "").Error; err != nil {
		return err
	}
	s.removeImage(ctx, user.Avatar)
	return nil
}

func (s *UserService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to remove image")
	}
}
