package handlers

import (
	"RadCase/services"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type CaseHandler struct {
	CaseService   *services.CaseService
	MediaService  *services.MediaService
	ReportService *services.ReportService
}

func NewCaseHandler(caseService *services.CaseService, mediaService *services.MediaService, reportService *services.ReportService) *CaseHandler {
	return &CaseHandler{
		CaseService:   caseService,
		MediaService:  mediaService,
		ReportService: reportService,
	}
}

// caseError maps service errors to HTTP responses shared across case routes.
func caseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCaseNotFound):
		c.JSON(404, gin.H{"error": "Case not found"})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(403, gin.H{"error": "Access denied"})
	case errors.Is(err, services.ErrAssigneeNotConnected):
		c.JSON(403, gin.H{"error": "Assigned doctor is not in your connections"})
	case errors.Is(err, services.ErrNoFiles):
		c.JSON(400, gin.H{"error": "At least one file is required"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(400, gin.H{"error": "Invalid status value"})
	case errors.Is(err, services.ErrInvalidCaseData):
		c.JSON(400, gin.H{"error": fmt.Sprintf("Validation failed: %v", err)})
	default:
		c.JSON(500, gin.H{"error": fmt.Sprintf("Request failed: %v", err)})
	}
}

// CreateCase accepts a multipart form with case fields and one or more
// media files and assigns the case to a connected doctor.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	technicianID, ok := currentUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid multipart form"})
		return
	}

	req := services.CreateCaseRequest{
		PatientName: c.PostForm("patient_name"),
		PatientID:   c.PostForm("patient_id"),
		StudyType:   c.PostForm("study_type"),
		AssignedTo:  c.PostForm("assigned_to"),
	}
	files := form.File["files"]

	created, err := h.CaseService.Create(c.Request.Context(), technicianID, req, files)
	if err != nil {
		caseError(c, err)
		return
	}

	c.JSON(201, gin.H{"case": created})
}

// ListCases returns the cases visible to the current user, technicians see
// their uploads and doctors see their assignments. An optional ?status=
// query filters the list.
func (h *CaseHandler) ListCases(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	status := c.Query("status")
	cases, err := h.CaseService.ListForUser(c.Request.Context(), userID, role, status)
	if err != nil {
		caseError(c, err)
		return
	}

	c.JSON(200, gin.H{"cases": cases})
}

// GetCase returns a single case to its participants, or read-only to any
// doctor.
func (h *CaseHandler) GetCase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	summary, err := h.CaseService.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		caseError(c, err)
		return
	}

	c.JSON(200, gin.H{"case": summary})
}

// UpdateCaseStatus moves a case between pending, in_progress and completed.
func (h *CaseHandler) UpdateCaseStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.CaseService.UpdateStatus(c.Request.Context(), c.Param("id"), userID, body.Status); err != nil {
		caseError(c, err)
		return
	}

	c.Status(200)
}

// ListCaseMedia returns the case's media files with freshly signed URLs.
func (h *CaseHandler) ListCaseMedia(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	media, err := h.MediaService.ListForCase(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		caseError(c, err)
		return
	}

	c.JSON(200, gin.H{"media": media})
}

// GetReport returns the case's report, or a null report when none has been
// written yet.
func (h *CaseHandler) GetReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	report, err := h.ReportService.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		caseError(c, err)
		return
	}

	c.JSON(200, gin.H{"report": report})
}

// SaveReport creates the case's report or updates its content. Only the
// assigned doctor may write it.
func (h *CaseHandler) SaveReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role, ok := currentUserRole(c)
	if !ok {
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := h.ReportService.Save(c.Request.Context(), c.Param("id"), userID, role, body.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyReport) {
			c.JSON(400, gin.H{"error": "Report content cannot be empty"})
			return
		}
		caseError(c, err)
		return
	}

	c.JSON(200, gin.H{"report": report})
}
