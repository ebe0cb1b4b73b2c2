package services

import (
	"RadCase/models"
	"RadCase/repositories"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrAlreadyConnected   = errors.New("doctor is already in your connections")
	ErrNotADoctor         = errors.New("target user is not a doctor")
)

// ConnectionDirectory is what a technician sees: their connected doctors and
// the complementary set of doctors still available to add.
type ConnectionDirectory struct {
	Connected []models.DoctorConnection `json:"connected"`
	Available []models.User             `json:"available"`
}

type ConnectionService struct {
	connectionRepo repositories.ConnectionRepository
	userRepo       repositories.UserRepository
}

func NewConnectionService(connectionRepo repositories.ConnectionRepository, userRepo repositories.UserRepository) *ConnectionService {
	return &ConnectionService{connectionRepo: connectionRepo, userRepo: userRepo}
}

// AvailableDoctors returns the doctors not yet connected, preserving order.
func AvailableDoctors(all []models.User, connected []models.DoctorConnection) []models.User {
	connectedIDs := make(map[string]bool, len(connected))
	for _, c := range connected {
		connectedIDs[c.DoctorID] = true
	}

	available := make([]models.User, 0, len(all))
	for _, d := range all {
		if !connectedIDs[d.ID] {
			available = append(available, d)
		}
	}
	return available
}

// List returns the technician's connection directory.
func (s *ConnectionService) List(ctx context.Context, technicianID string) (*ConnectionDirectory, error) {
	connected, err := s.connectionRepo.ListByTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	allDoctors, err := s.userRepo.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	return &ConnectionDirectory{
		Connected: connected,
		Available: AvailableDoctors(allDoctors, connected),
	}, nil
}

// Add connects a doctor to the technician's allow-list.
func (s *ConnectionService) Add(ctx context.Context, technicianID, doctorID string) (*models.DoctorConnection, error) {
	doctor, err := s.userRepo.GetUserByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	if doctor == nil || doctor.Role != models.RoleDoctor {
		return nil, ErrNotADoctor
	}

	exists, err := s.connectionRepo.Exists(ctx, technicianID, doctorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyConnected
	}

	connection := &models.DoctorConnection{
		ID:           uuid.New().String(),
		TechnicianID: technicianID,
		DoctorID:     doctorID,
	}
	if err := s.connectionRepo.Create(ctx, connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// Remove deletes a connection owned by the technician. Cases already assigned
// to the doctor are untouched.
func (s *ConnectionService) Remove(ctx context.Context, technicianID, connectionID string) error {
	connection, err := s.connectionRepo.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if connection == nil {
		return ErrConnectionNotFound
	}
	if connection.TechnicianID != technicianID {
		return ErrAccessDenied
	}

	return s.connectionRepo.Delete(ctx, connection)
}
