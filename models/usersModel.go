package models

import (
	"time"
)

// Roles recognised by the platform.
const (
	RoleTechnician = "technician"
	RoleDoctor     = "doctor"
)

// ValidRole reports whether the given role is one a user may sign up with.
func ValidRole(role string) bool {
	return role == RoleTechnician || role == RoleDoctor
}

// User represents an account and its role-tagged profile. Technicians upload
// cases; doctors review them and author reports.
type User struct {
	ID                string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	Email             string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password          string    `gorm:"size:255;not null;column:password" json:"-"`
	FullName          string    `gorm:"size:255;not null;column:full_name" json:"full_name"`
	Role              string    `gorm:"size:20;check:role IN ('technician', 'doctor');not null;index;column:role" json:"role"`
	MobileNumber      string    `gorm:"size:30;column:mobile_number" json:"mobile_number"`
	ProfilePictureURL string    `gorm:"size:512;column:profile_picture_url" json:"profile_picture_url"`
	CreatedAt         time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// DoctorConnection is a technician's personal allow-list entry. Only connected
// doctors are eligible assignees for that technician's cases.
type DoctorConnection struct {
	ID           string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	TechnicianID string    `gorm:"column:technician_id;size:36;not null;index;uniqueIndex:idx_technician_doctor" json:"technician_id"`
	DoctorID     string    `gorm:"column:doctor_id;size:36;not null;index;uniqueIndex:idx_technician_doctor" json:"doctor_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Technician   User      `gorm:"foreignKey:TechnicianID;references:ID" json:"-"`
	Doctor       User      `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (DoctorConnection) TableName() string {
	return "doctor_connections"
}
