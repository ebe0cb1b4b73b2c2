package services

import (
	"RadCase/models"
	"RadCase/repositories"
	"RadCase/storage"
	"RadCase/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService interface {
	ValidateAndCreateUser(ctx context.Context, user *models.User) error
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID, fullName, email, mobileNumber string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, email, hashedPassword string) error
	UpdateProfilePicture(ctx context.Context, userID string, file *multipart.FileHeader) (string, error)
	ListDoctors(ctx context.Context) ([]models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	storage  *storage.Client
}

func NewUserService(userRepo repositories.UserRepository, storageClient *storage.Client) UserService {
	return &userService{userRepo: userRepo, storage: storageClient}
}

func (s *userService) ValidateAndCreateUser(ctx context.Context, user *models.User) error {
	lockKey := fmt.Sprintf("user_lock:%s", user.Email)
	lockValue := uuid.New().String()
	locked, err := newLock(ctx, lockKey, lockValue, time.Minute)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	defer func() {
		if err := releaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if err := utils.ValidateSignup(*user); err != nil {
		return fmt.Errorf("invalid signup data: %w", err)
	}

	if exists, err := s.userRepo.EmailExists(ctx, user.Email); err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword
	user.ID = uuid.New().String()

	return s.userRepo.CreateUser(ctx, user)
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

func (s *userService) UpdateUserProfile(ctx context.Context, userID, fullName, email, mobileNumber string) error {
	if err := utils.ValidateProfileUpdate(fullName, email, mobileNumber); err != nil {
		return fmt.Errorf("invalid profile data: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if email != user.Email {
		if exists, err := s.userRepo.EmailExists(ctx, email); err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		} else if exists {
			return ErrEmailTaken
		}
	}

	return s.userRepo.UpdateUserProfile(ctx, userID, fullName, email, mobileNumber)
}

// ChangePassword requires re-authentication with the current password before
// accepting a new one.
func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !utils.CheckPassword(user.Password, currentPassword) {
		return ErrInvalidCredentials
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdateUserPassword(ctx, userID, hashedPassword)
}

// ResetPassword sets a new password after a reset-code exchange. The caller
// is responsible for verifying the code.
func (s *userService) ResetPassword(ctx context.Context, email, hashedPassword string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.UpdateUserPassword(ctx, user.ID, hashedPassword)
}

// UpdateProfilePicture uploads a new public picture, removes the previous
// object if one existed, and stores the new URL on the profile.
func (s *userService) UpdateProfilePicture(ctx context.Context, userID string, fh *multipart.FileHeader) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", errors.New("profile picture must be an image")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	key := fmt.Sprintf("profile-pictures/%s/%d%s", userID, time.Now().UnixMilli(), ext)

	url, err := s.storage.UploadPublic(ctx, key, mime, src, fh.Size)
	if err != nil {
		return "", fmt.Errorf("failed to upload picture: %w", err)
	}

	if user.ProfilePictureURL != "" {
		if oldKey, ok := s.storage.KeyFromPublicURL(user.ProfilePictureURL); ok {
			if err := s.storage.Delete(ctx, oldKey); err != nil {
				log.Printf("Failed to delete old profile picture: %v", err)
			}
		}
	}

	if err := s.userRepo.UpdateProfilePicture(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *userService) ListDoctors(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListDoctors(ctx)
}
