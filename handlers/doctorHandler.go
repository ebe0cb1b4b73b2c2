package handlers

import (
	"RadCase/services"
	"fmt"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	UserService services.UserService
}

func NewDoctorHandler(userService services.UserService) *DoctorHandler {
	return &DoctorHandler{
		UserService: userService,
	}
}

// ListDoctors returns every registered doctor ordered by name.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.UserService.ListDoctors(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("Failed to list doctors: %v", err)})
		return
	}

	c.JSON(200, gin.H{"doctors": doctors})
}
