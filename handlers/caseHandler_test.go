package handlers

import (
	"RadCase/services"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCaseErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation failure", fmt.Errorf("%w: patient_name: cannot be blank", services.ErrInvalidCaseData), 400},
		{"no files", services.ErrNoFiles, 400},
		{"invalid status", services.ErrInvalidStatus, 400},
		{"access denied", services.ErrAccessDenied, 403},
		{"assignee not connected", services.ErrAssigneeNotConnected, 403},
		{"not found", services.ErrCaseNotFound, 404},
		{"unexpected", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			caseError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("caseError(%v) wrote status %d, want %d", tt.err, w.Code, tt.wantStatus)
			}
		})
	}
}
