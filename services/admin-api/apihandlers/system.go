package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/wttaideveloper/MentalHealth-sub002/pkg/apihelpers/middlewares"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddSystemAPI(rg *gin.RouterGroup) {
	systemGroup := rg.Group("/system")
	systemGroup.Use(mw.GetAndValidateAdminUserJWT(h.tokenSignKey))
	systemGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	systemGroup.Use(mw.IsAdminUser())
	{
		systemGroup.GET("/db-indexes", h.getDBIndexes)
	}
}

// getDBIndexes reports the index definitions of both databases, so an
// operator can check the state after a deployment or a manual migration.
func (h *HttpEndpoints) getDBIndexes(c *gin.Context) {
	instanceID := h.instanceID(c)

	assessmentIndexes, err := h.assessmentDBConn.ListIndexes(instanceID)
	if err != nil {
		slog.Error("failed to list assessment indexes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list indexes"})
		return
	}

	userIndexes, err := h.userDBConn.ListIndexes(instanceID)
	if err != nil {
		slog.Error("failed to list platform user indexes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list indexes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessmentDB":   assessmentIndexes,
		"platformUserDB": userIndexes,
	})
}
