package repositories

import (
	"RadCase/cache"
	"RadCase/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 24 * time.Hour
)

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID, fullName, email, mobileNumber string) error
	UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error
	UpdateProfilePicture(ctx context.Context, userID, pictureURL string) error
	ListDoctors(ctx context.Context) ([]models.User, error)
	DeleteUserCache(ctx context.Context, userID string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// cachedUser is the cache representation of a user. The API model hides the
// password hash from JSON, so caching it directly would strip the hash and
// break re-authentication on every cache hit.
type cachedUser struct {
	models.User
	Password string `json:"password"`
}

func encodeUser(user *models.User) ([]byte, error) {
	return json.Marshal(cachedUser{User: *user, Password: user.Password})
}

func decodeUser(data string) (*models.User, error) {
	var cached cachedUser
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, err
	}
	user := cached.User
	user.Password = cached.Password
	return &user, nil
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return r.cache.DeleteAll(ctx, "doctors_cache*")
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getUserCacheKey(userID)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		if user, err := decodeUser(cached); err == nil {
			return user, nil
		}
	}

	var user models.User
	err = r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	userJSON, err := encodeUser(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, userJSON, UserCacheExpiry); err != nil {
		log.Printf("Failed to set user in cache: %v", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateUserProfile(ctx context.Context, userID, fullName, email, mobileNumber string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"full_name":     fullName,
			"email":         email,
			"mobile_number": mobileNumber,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if err := r.DeleteUserCache(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "doctors_cache*")
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("password", hashedPassword).Error
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return r.DeleteUserCache(ctx, userID)
}

func (r *userRepository) UpdateProfilePicture(ctx context.Context, userID, pictureURL string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("profile_picture_url", pictureURL).Error
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	return r.DeleteUserCache(ctx, userID)
}

func (r *userRepository) ListDoctors(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "doctors_cache"
	cachedDoctors, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedDoctors != "" {
		var doctors []models.User
		if err := json.Unmarshal([]byte(cachedDoctors), &doctors); err == nil {
			return doctors, nil
		}
	}

	var doctors []models.User
	err = r.db.WithContext(ctx).
		Select("id, email, full_name, role, mobile_number, profile_picture_url, created_at").
		Where("role = ?", models.RoleDoctor).
		Order("full_name").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	doctorsJSON, err := json.Marshal(doctors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal doctors: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, doctorsJSON, UserCacheExpiry); err != nil {
		log.Printf("Failed to set doctors in cache: %v", err)
	}

	return doctors, nil
}

func (r *userRepository) DeleteUserCache(ctx context.Context, userID string) error {
	return r.cache.Delete(ctx, r.getUserCacheKey(userID))
}

func (r *userRepository) getUserCacheKey(userID string) string {
	return fmt.Sprintf("user_cache:%s", userID)
}
