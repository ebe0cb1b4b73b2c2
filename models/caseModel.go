package models

import (
	"fmt"
	"strings"
	"time"
)

// Case statuses. Any direct transition between them is allowed; there is no
// enforced ordering.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Media file types.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
)

// ValidStatus reports whether status is one of the three case statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// InferFileType classifies an upload by its MIME type: video if the type
// starts with "video/", image otherwise.
func InferFileType(mimeType string) string {
	if strings.HasPrefix(mimeType, "video/") {
		return FileTypeVideo
	}
	return FileTypeImage
}

// NewCaseNumber builds the human-readable case number shown to users. It is
// timestamp-derived and not globally unique; the row ID is the real key.
func NewCaseNumber(now time.Time) string {
	return fmt.Sprintf("CASE-%d", now.UnixMilli())
}

// Case is a radiological study uploaded by a technician and assigned to a
// doctor for review. The assignee is fixed at creation.
type Case struct {
	ID          string      `gorm:"primaryKey;column:id;size:36" json:"id"`
	CaseNumber  string      `gorm:"column:case_number;size:40;not null;index" json:"case_number"`
	PatientName string      `gorm:"column:patient_name;size:255;not null" json:"patient_name"`
	PatientID   string      `gorm:"column:patient_id;size:100;not null" json:"patient_id"`
	StudyType   string      `gorm:"column:study_type;size:100;not null" json:"study_type"`
	Status      string      `gorm:"column:status;size:20;check:status IN ('pending', 'in_progress', 'completed');not null;default:pending;index" json:"status"`
	UploadedBy  string      `gorm:"column:uploaded_by;size:36;not null;index" json:"uploaded_by"`
	AssignedTo  string      `gorm:"column:assigned_to;size:36;not null;index" json:"assigned_to"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	Technician  User        `gorm:"foreignKey:UploadedBy;references:ID" json:"-"`
	Doctor      User        `gorm:"foreignKey:AssignedTo;references:ID" json:"-"`
	MediaFiles  []MediaFile `gorm:"foreignKey:CaseID;references:ID" json:"-"`
}

func (Case) TableName() string {
	return "cases"
}

// IsParticipant reports whether userID is the uploading technician or the
// assigned doctor of the case.
func (c *Case) IsParticipant(userID string) bool {
	return c.UploadedBy == userID || c.AssignedTo == userID
}

// MediaFile belongs to exactly one case. Files are only ever appended for a
// case; there is no update path.
type MediaFile struct {
	ID         string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	CaseID     string    `gorm:"column:case_id;size:36;not null;index" json:"case_id"`
	FileName   string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	FilePath   string    `gorm:"column:file_path;size:512;not null" json:"file_path"`
	FileType   string    `gorm:"column:file_type;size:10;check:file_type IN ('image', 'video');not null" json:"file_type"`
	FileSize   int64     `gorm:"column:file_size" json:"file_size"`
	UploadedAt time.Time `gorm:"autoCreateTime;column:uploaded_at;index" json:"uploaded_at"`
	Case       Case      `gorm:"foreignKey:CaseID;references:ID" json:"-"`
}

func (MediaFile) TableName() string {
	return "media_files"
}

// Report holds the diagnostic text for a case. At most one report exists per
// case; saving again updates the content in place.
type Report struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	CaseID    string    `gorm:"column:case_id;size:36;not null;uniqueIndex" json:"case_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedBy string    `gorm:"column:created_by;size:36;not null;index" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	Case      Case      `gorm:"foreignKey:CaseID;references:ID" json:"-"`
	Author    User      `gorm:"foreignKey:CreatedBy;references:ID" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}
