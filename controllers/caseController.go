package controllers

import (
	"RadCase/handlers"
	"RadCase/middlewares"
	"RadCase/models"

	"github.com/gin-gonic/gin"
)

func SetupCaseRoutes(router *gin.Engine, caseHandler *handlers.CaseHandler, connectionHandler *handlers.ConnectionHandler, doctorHandler *handlers.DoctorHandler) {
	// All case routes require an authenticated user
	authed := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		authed.GET("/doctors", doctorHandler.ListDoctors)

		authed.GET("/cases", caseHandler.ListCases)
		authed.GET("/cases/:id", caseHandler.GetCase)
		authed.PUT("/cases/:id/status", caseHandler.UpdateCaseStatus)
		authed.GET("/cases/:id/media", caseHandler.ListCaseMedia)
		authed.GET("/cases/:id/report", caseHandler.GetReport)
		authed.PUT("/cases/:id/report", caseHandler.SaveReport)
	}

	// Technician-only routes: case creation and the connection list
	techGroup := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleTechnician),
	)
	{
		techGroup.POST("/cases", caseHandler.CreateCase)
		techGroup.GET("/connections", connectionHandler.ListConnections)
		techGroup.POST("/connections", connectionHandler.AddConnection)
		techGroup.DELETE("/connections/:id", connectionHandler.RemoveConnection)
	}
}
