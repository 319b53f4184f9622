package main

import (
	"log/slog"
	"time"

	"github.com/wttaideveloper/MentalHealth-sub002/services/admin-api/apihandlers"
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
		conf.AdminUserJWTConfig.SignKey,
		conf.AdminUserJWTConfig.ExpiresIn,
		assessmentDBService,
		platformUserDBService,
		conf.AllowedInstanceIDs,
		conf.AdminAccounts,
	)
	v1APIHandlers.AddAdminAuthAPI(v1Root)
	v1APIHandlers.AddTestManagementAPI(v1Root)
	v1APIHandlers.AddUserManagementAPI(v1Root)
	v1APIHandlers.AddSystemAPI(v1Root)

	// Start the server
	slog.Info("Starting Admin API on port " + conf.GinConfig.Port)
	err := router.Run(":" + conf.GinConfig.Port)
	if err != nil {
		slog.Error("Exited Admin API", slog.String("error", err.Error()))
		return
	}
}
