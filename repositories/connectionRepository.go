package repositories

import (
	"RadCase/cache"
	"RadCase/database"
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
	ConnectionCacheExpiry = 24 * time.Hour
)

type ConnectionRepository interface {
	ListByTechnician(ctx context.Context, technicianID string) ([]models.DoctorConnection, error)
	Exists(ctx context.Context, technicianID, doctorID string) (bool, error)
	GetByID(ctx context.Context, connectionID string) (*models.DoctorConnection, error)
	Create(ctx context.Context, connection *models.DoctorConnection) error
	Delete(ctx context.Context, connection *models.DoctorConnection) error
}

type connectionRepository struct {
	cache *cache.Cache
}

func NewConnectionRepository(cache *cache.Cache) ConnectionRepository {
	return &connectionRepository{cache: cache}
}

// ListByTechnician returns a technician's connections with the doctor
// profiles preloaded.
func (r *connectionRepository) ListByTechnician(ctx context.Context, technicianID string) ([]models.DoctorConnection, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getConnectionsCacheKey(technicianID)
	cachedConnections, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedConnections != "" {
		var connections []models.DoctorConnection
		if err := json.Unmarshal([]byte(cachedConnections), &connections); err == nil {
			return connections, nil
		}
	}

	var connections []models.DoctorConnection
	err = database.DB.WithContext(ctx).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email, mobile_number, profile_picture_url")
		}).
		Where("technician_id = ?", technicianID).
		Order("created_at").
		Find(&connections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	connectionsJSON, err := json.Marshal(connections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal connections: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, connectionsJSON, ConnectionCacheExpiry); err != nil {
		log.Printf("Failed to set connections in cache: %v", err)
	}

	return connections, nil
}

// Exists reports whether the technician has the doctor in their connection
// list.
func (r *connectionRepository) Exists(ctx context.Context, technicianID, doctorID string) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.DoctorConnection{}).
		Where("technician_id = ? AND doctor_id = ?", technicianID, doctorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return count > 0, nil
}

func (r *connectionRepository) GetByID(ctx context.Context, connectionID string) (*models.DoctorConnection, error) {
	var connection models.DoctorConnection
	err := database.DB.WithContext(ctx).First(&connection, "id = ?", connectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &connection, nil
}

func (r *connectionRepository) Create(ctx context.Context, connection *models.DoctorConnection) error {
	if err := database.DB.WithContext(ctx).Create(connection).Error; err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return r.cache.Delete(ctx, r.getConnectionsCacheKey(connection.TechnicianID))
}

func (r *connectionRepository) Delete(ctx context.Context, connection *models.DoctorConnection) error {
	err := database.DB.WithContext(ctx).
		Delete(&models.DoctorConnection{}, "id = ?", connection.ID).Error
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return r.cache.Delete(ctx, r.getConnectionsCacheKey(connection.TechnicianID))
}

func (r *connectionRepository) getConnectionsCacheKey(technicianID string) string {
	return fmt.Sprintf("connections_cache:%s", technicianID)
}
