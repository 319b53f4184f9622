package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/wttaideveloper/MentalHealth-sub002/pkg/apihelpers/middlewares"
	umTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddUserManagementAPI(rg *gin.RouterGroup) {
	usersGroup := rg.Group("/users")
	usersGroup.Use(mw.GetAndValidateAdminUserJWT(h.tokenSignKey))
	usersGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	usersGroup.Use(mw.IsAdminUser())
	{
		usersGroup.GET("/:userID", h.getUser)
		usersGroup.GET("/:userID/attempts", h.getUserAttempts)
		usersGroup.GET("/:userID/purchases", h.getUserPurchases)
		usersGroup.POST("/:userID/purchases", mw.RequirePayload(), h.createPurchase)
		usersGroup.POST("/purchases/:purchaseID/complete", h.completePurchase)
		usersGroup.DELETE("/:userID", h.deleteUser)
	}
}

func (h *HttpEndpoints) getUser(c *gin.Context) {
	user, err := h.userDBConn.GetUserByID(h.instanceID(c), c.Param("userID"))
	if err != nil {
		slog.Warn("user not found", slog.String("userID", c.Param("userID")), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *HttpEndpoints) getUserAttempts(c *gin.Context) {
	attempts, err := h.assessmentDBConn.GetTestAttemptsForUser(h.instanceID(c), c.Param("userID"))
	if err != nil {
		slog.Error("failed to fetch attempts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attempts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

func (h *HttpEndpoints) getUserPurchases(c *gin.Context) {
	purchases, err := h.userDBConn.GetPurchasesForUser(h.instanceID(c), c.Param("userID"))
	if err != nil {
		slog.Error("failed to fetch purchases", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

type CreatePurchaseReq struct {
	TestID   string  `json:"testId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (h *HttpEndpoints) createPurchase(c *gin.Context) {
	var req CreatePurchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "testId is required"})
		return
	}

	purchase := &umTypes.Purchase{
		UserID:   c.Param("userID"),
		TestID:   req.TestID,
		Amount:   req.Amount,
		Currency: req.Currency,
	}
	if err := h.userDBConn.CreatePurchase(h.instanceID(c), purchase); err != nil {
		slog.Error("failed to create purchase", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create purchase"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}

// completePurchase marks a pending purchase as paid and issues the invoice
// record for it.
func (h *HttpEndpoints) completePurchase(c *gin.Context) {
	instanceID := h.instanceID(c)

	purchase, err := h.userDBConn.GetPurchaseByID(instanceID, c.Param("purchaseID"))
	if err != nil {
		slog.Warn("purchase not found", slog.String("purchaseID", c.Param("purchaseID")), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
		return
	}

	invoice := &umTypes.Invoice{
		UserID:        purchase.UserID,
		PurchaseID:    purchase.ID.Hex(),
		InvoiceNumber: "INV-" + purchase.ID.Hex(),
		Amount:        purchase.Amount,
		Currency:      purchase.Currency,
	}
	if err := h.userDBConn.CreateInvoice(instanceID, invoice); err != nil {
		slog.Error("failed to create invoice", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
		return
	}

	if err := h.userDBConn.CompletePurchase(instanceID, purchase.ID.Hex(), invoice.ID.Hex()); err != nil {
		slog.Error("failed to complete purchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("purchase completed", slog.String("purchaseID", purchase.ID.Hex()), slog.String("instanceID", instanceID))
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *HttpEndpoints) deleteUser(c *gin.Context) {
	instanceID := h.instanceID(c)
	userID := c.Param("userID")

	count, err := h.assessmentDBConn.DeleteAttemptsForUser(instanceID, userID)
	if err != nil {
		slog.Error("failed to delete attempts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete attempts"})
		return
	}

	if err := h.userDBConn.DeleteUser(instanceID, userID); err != nil {
		slog.Error("failed to delete user", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("user deleted", slog.String("userID", userID), slog.String("instanceID", instanceID), slog.Int64("deletedAttempts", count))
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
