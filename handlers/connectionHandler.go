package handlers

import (
	"RadCase/services"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	ConnectionService *services.ConnectionService
}

func NewConnectionHandler(connectionService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		ConnectionService: connectionService,
	}
}

// ListConnections returns the technician's connected doctors together with
// the doctors still available to connect.
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	technicianID, ok := currentUserID(c)
	if !ok {
		return
	}

	directory, err := h.ConnectionService.List(c.Request.Context(), technicianID)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to list connections: %v", err)})
		return
	}

	c.JSON(200, gin.H{
		"connected": directory.Connected,
		"available": directory.Available,
	})
}

// AddConnection connects the technician to a doctor.
func (h *ConnectionHandler) AddConnection(c *gin.Context) {
	technicianID, ok := currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		DoctorID string `json:"doctor_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	connection, err := h.ConnectionService.Add(c.Request.Context(), technicianID, body.DoctorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotADoctor):
			c.JSON(400, gin.H{"error": "Target user is not a doctor"})
		case errors.Is(err, services.ErrAlreadyConnected):
			c.JSON(409, gin.H{"error": "Doctor is already connected"})
		default:
			c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to add connection: %v", err)})
		}
		return
	}

	c.JSON(201, gin.H{"connection": connection})
}

// RemoveConnection deletes one of the technician's own connections.
func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	technicianID, ok := currentUserID(c)
	if !ok {
		return
	}

	err := h.ConnectionService.Remove(c.Request.Context(), technicianID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConnectionNotFound):
			c.JSON(404, gin.H{"error": "Connection not found"})
		case errors.Is(err, services.ErrAccessDenied):
			c.JSON(403, gin.H{"error": "Access denied"})
		default:
			c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to remove connection: %v", err)})
		}
		return
	}

	c.Status(200)
}
