package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/wttaideveloper/MentalHealth-sub002/pkg/apihelpers/middlewares"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/engine"
	assessmentTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
	jwthandling "github.com/wttaideveloper/MentalHealth-sub002/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *HttpEndpoints) AddTestManagementAPI(rg *gin.RouterGroup) {
	testsGroup := rg.Group("/tests")
	testsGroup.Use(mw.GetAndValidateAdminUserJWT(h.tokenSignKey))
	testsGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	testsGroup.Use(mw.IsAdminUser())
	{
		testsGroup.GET("", h.listTestDefinitions)
		testsGroup.GET("/:testID", h.getTestDefinition)
		testsGroup.POST("", mw.RequirePayload(), h.createTestDefinition)
		testsGroup.PUT("/:testID", mw.RequirePayload(), h.updateTestDefinition)
		testsGroup.DELETE("/:testID", h.archiveTestDefinition)
		testsGroup.POST("/validate", mw.RequirePayload(), h.validateTestDefinition)
	}
}

func (h *HttpEndpoints) instanceID(c *gin.Context) string {
	token := c.MustGet("validatedToken").(*jwthandling.AdminUserClaims)
	return token.InstanceID
}

func (h *HttpEndpoints) listTestDefinitions(c *gin.Context) {
	includeArchived := c.DefaultQuery("includeArchived", "false") == "true"
	category := c.Query("category")

	testDefs, err := h.assessmentDBConn.GetTestDefinitions(h.instanceID(c), category, !includeArchived)
	if err != nil {
		slog.Error("failed to list test definitions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list test definitions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": testDefs})
}

func (h *HttpEndpoints) getTestDefinition(c *gin.Context) {
	testDef, err := h.assessmentDBConn.GetTestDefinitionByID(h.instanceID(c), c.Param("testID"))
	if err != nil {
		slog.Warn("test not found", slog.String("testID", c.Param("testID")), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"test": testDef})
}

func (h *HttpEndpoints) createTestDefinition(c *gin.Context) {
	var testDef assessmentTypes.TestDefinition
	if err := c.ShouldBindJSON(&testDef); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	testDef.ID = primitive.NilObjectID

	validationResult, err := assessment.SaveTestDefinition(h.instanceID(c), &testDef)
	if !validationResult.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "test definition is invalid", "validation": validationResult})
		return
	}
	if err != nil {
		slog.Error("failed to save test definition", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save test definition"})
		return
	}

	slog.Info("test definition created", slog.String("testID", testDef.ID.Hex()), slog.String("instanceID", h.instanceID(c)))
	c.JSON(http.StatusCreated, gin.H{"test": testDef, "validation": validationResult})
}

func (h *HttpEndpoints) updateTestDefinition(c *gin.Context) {
	var testDef assessmentTypes.TestDefinition
	if err := c.ShouldBindJSON(&testDef); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_id, err := primitive.ObjectIDFromHex(c.Param("testID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test id"})
		return
	}
	testDef.ID = _id

	current, err := h.assessmentDBConn.GetTestDefinitionByID(h.instanceID(c), c.Param("testID"))
	if err != nil {
		slog.Warn("test not found", slog.String("testID", c.Param("testID")), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	testDef.IsActive = current.IsActive
	testDef.CreatedAt = current.CreatedAt

	validationResult, err := assessment.SaveTestDefinition(h.instanceID(c), &testDef)
	if !validationResult.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "test definition is invalid", "validation": validationResult})
		return
	}
	if err != nil {
		slog.Error("failed to update test definition", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update test definition"})
		return
	}

	slog.Info("test definition updated", slog.String("testID", testDef.ID.Hex()), slog.String("instanceID", h.instanceID(c)))
	c.JSON(http.StatusOK, gin.H{"test": testDef, "validation": validationResult})
}

func (h *HttpEndpoints) archiveTestDefinition(c *gin.Context) {
	if err := assessment.ArchiveTestDefinition(h.instanceID(c), c.Param("testID")); err != nil {
		slog.Warn("failed to archive test definition", slog.String("testID", c.Param("testID")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slog.Info("test definition archived", slog.String("testID", c.Param("testID")), slog.String("instanceID", h.instanceID(c)))
	c.JSON(http.StatusOK, gin.H{"message": "test archived"})
}

// validateTestDefinition runs the full validation without persisting, so the
// authoring UI can show errors and warnings while editing.
func (h *HttpEndpoints) validateTestDefinition(c *gin.Context) {
	var testData map[string]any
	if err := c.ShouldBindJSON(&testData); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validationResult := engine.ValidateTestData(testData)
	c.JSON(http.StatusOK, gin.H{"validation": validationResult})
}
