package main

import (
	"log/slog"
	"time"

	"github.com/wttaideveloper/MentalHealth-sub002/services/participant-api/apihandlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	if assessmentDBService == nil || platformUserDBService == nil {
		slog.Error("DB services not initialized")
		return
	}

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.UserManagementConfig.ParticipantUserJWTConfig.SignKey,
		conf.UserManagementConfig.ParticipantUserJWTConfig.ExpiresIn,
		assessmentDBService,
		platformUserDBService,
		conf.AllowedInstanceIDs,
	)
	v1APIHandlers.AddParticipantAuthAPI(v1Root)
	v1APIHandlers.AddAssessmentAPI(v1Root)

	// Start the server
	slog.Info("Starting Participant API on port " + conf.GinConfig.Port)
	err := router.Run(":" + conf.GinConfig.Port)
	if err != nil {
		slog.Error("Exited Participant API", slog.String("error", err.Error()))
		return
	}
}
