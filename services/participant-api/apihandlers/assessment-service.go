package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/wttaideveloper/MentalHealth-sub002/pkg/apihelpers/middlewares"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment"
	assessmentTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
	jwthandling "github.com/wttaideveloper/MentalHealth-sub002/pkg/jwt-handling"
	umTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddAssessmentAPI(rg *gin.RouterGroup) {
	testsGroup := rg.Group("/tests")
	testsGroup.Use(mw.GetAndValidateParticipantUserJWT(h.tokenSignKey))
	testsGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	{
		testsGroup.GET("", h.getAvailableTests)
		testsGroup.GET("/:testID", h.getTestDefinition)
		testsGroup.POST("/:testID/attempts", h.startAttempt)
	}

	attemptsGroup := rg.Group("/attempts")
	attemptsGroup.Use(mw.GetAndValidateParticipantUserJWT(h.tokenSignKey))
	attemptsGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	{
		attemptsGroup.GET("", h.getAttemptHistory)
		attemptsGroup.POST("/:attemptID/answers", mw.RequirePayload(), h.saveAttemptAnswers)
		attemptsGroup.POST("/:attemptID/visible-questions", h.getVisibleQuestions)
		attemptsGroup.POST("/:attemptID/submit", h.submitAttempt)
	}

	userGroup := rg.Group("/user")
	userGroup.Use(mw.GetAndValidateParticipantUserJWT(h.tokenSignKey))
	userGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	{
		userGroup.GET("", h.getUserInfos)
		userGroup.POST("/consents", mw.RequirePayload(), h.giveConsent)
		userGroup.DELETE("/consents/:scope", h.revokeConsent)
		userGroup.GET("/purchases", h.getPurchases)
		userGroup.GET("/invoices", h.getInvoices)
		userGroup.DELETE("", h.markUserForDeletion)
	}
}

func (h *HttpEndpoints) currentUser(c *gin.Context) (*umTypes.PlatformUser, *jwthandling.ParticipantUserClaims, bool) {
	token := c.MustGet("validatedToken").(*jwthandling.ParticipantUserClaims)
	user, err := h.userDBConn.GetUserByID(token.InstanceID, token.Subject)
	if err != nil {
		slog.Error("user not found", slog.String("userID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return nil, token, false
	}
	return user, token, true
}

func (h *HttpEndpoints) getAvailableTests(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	testDefs, err := assessment.GetEligibleActiveTests(token.InstanceID, user)
	if err != nil {
		slog.Error("failed to list tests", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": testDefs})
}

func (h *HttpEndpoints) getTestDefinition(c *gin.Context) {
	_, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	testDef, err := h.assessmentDBConn.GetTestDefinitionByID(token.InstanceID, c.Param("testID"))
	if err != nil {
		slog.Warn("test not found", slog.String("testID", c.Param("testID")), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	if !testDef.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"test": testDef})
}

func (h *HttpEndpoints) startAttempt(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	attempt, err := assessment.StartAttempt(token.InstanceID, user, c.Param("testID"))
	if err != nil {
		slog.Warn("could not start attempt", slog.String("userID", user.ID.Hex()), slog.String("testID", c.Param("testID")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attempt": attempt})
}

func (h *HttpEndpoints) getAttemptHistory(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	attempts, err := h.assessmentDBConn.GetTestAttemptsForUser(token.InstanceID, user.ID.Hex())
	if err != nil {
		slog.Error("failed to fetch attempts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attempts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

type AttemptAnswersReq struct {
	Answers assessmentTypes.Answers `json:"answers"`
}

func (h *HttpEndpoints) saveAttemptAnswers(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req AttemptAnswersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := assessment.SaveAttemptAnswers(token.InstanceID, user.ID.Hex(), c.Param("attemptID"), req.Answers); err != nil {
		slog.Warn("failed to save answers", slog.String("attemptID", c.Param("attemptID")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "answers saved"})
}

func (h *HttpEndpoints) getVisibleQuestions(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req AttemptAnswersReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Error("failed to bind request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	questions, err := assessment.VisibleQuestionsForAttempt(token.InstanceID, user.ID.Hex(), c.Param("attemptID"), req.Answers)
	if err != nil {
		slog.Warn("failed to resolve visible questions", slog.String("attemptID", c.Param("attemptID")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *HttpEndpoints) submitAttempt(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req AttemptAnswersReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Error("failed to bind request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := assessment.SubmitAttempt(token.InstanceID, user, c.Param("attemptID"), req.Answers)
	if err != nil {
		slog.Warn("failed to submit attempt", slog.String("attemptID", c.Param("attemptID")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("attempt submitted", slog.String("subject", user.ID.Hex()), slog.String("instanceID", token.InstanceID), slog.String("attemptID", c.Param("attemptID")))
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *HttpEndpoints) getUserInfos(c *gin.Context) {
	user, _, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type ConsentReq struct {
	Scope string `json:"scope"`
}

func (h *HttpEndpoints) giveConsent(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req ConsentReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Scope == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope is required"})
		return
	}

	if user.HasActiveConsent(req.Scope) {
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	user.GiveConsent(req.Scope)
	if err := h.userDBConn.ReplaceUser(token.InstanceID, user); err != nil {
		slog.Error("failed to save consent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *HttpEndpoints) revokeConsent(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := user.RevokeConsent(c.Param("scope")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userDBConn.ReplaceUser(token.InstanceID, user); err != nil {
		slog.Error("failed to save consent", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *HttpEndpoints) getPurchases(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	purchases, err := h.userDBConn.GetPurchasesForUser(token.InstanceID, user.ID.Hex())
	if err != nil {
		slog.Error("failed to fetch purchases", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (h *HttpEndpoints) getInvoices(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	invoices, err := h.userDBConn.GetInvoicesForUser(token.InstanceID, user.ID.Hex())
	if err != nil {
		slog.Error("failed to fetch invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *HttpEndpoints) markUserForDeletion(c *gin.Context) {
	user, token, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.userDBConn.MarkUserForDeletion(token.InstanceID, user.ID.Hex()); err != nil {
		slog.Error("failed to mark user for deletion", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	slog.Info("user marked for deletion", slog.String("subject", user.ID.Hex()), slog.String("instanceID", token.InstanceID))
	c.JSON(http.StatusOK, gin.H{"message": "account scheduled for deletion"})
}
