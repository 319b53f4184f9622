package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	mw "github.com/wttaideveloper/MentalHealth-sub002/pkg/apihelpers/middlewares"
	jwthandling "github.com/wttaideveloper/MentalHealth-sub002/pkg/jwt-handling"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/pwhash"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddAdminAuthAPI(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", mw.RequirePayload(), h.adminLogin)
	auth.GET("/token/validate", mw.GetAndValidateAdminUserJWT(h.tokenSignKey), h.validateToken)
}

type AdminLoginReq struct {
	AccountID  string `json:"accountId"`
	Password   string `json:"password"`
	InstanceID string `json:"instanceId"`
}

func (h *HttpEndpoints) adminLogin(c *gin.Context) {
	var req AdminLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AccountID == "" || req.Password == "" || req.InstanceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		slog.Warn("instance not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusForbidden, gin.H{"error": "instance not allowed"})
		return
	}

	var account *AdminAccount
	for i := range h.adminAccounts {
		if h.adminAccounts[i].AccountID == req.AccountID {
			account = &h.adminAccounts[i]
			break
		}
	}
	if account == nil {
		slog.Warn("admin login with unknown account", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	match, err := pwhash.ComparePasswordWithHash(account.PasswordHash, req.Password)
	if err != nil || !match {
		slog.Warn("admin login with wrong password", slog.String("accountID", req.AccountID), slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := jwthandling.GenerateNewAdminUserToken(
		h.tokenExpiresIn,
		account.AccountID,
		req.InstanceID,
		account.IsAdmin,
		map[string]string{},
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("admin login successful", slog.String("accountID", account.AccountID), slog.String("instanceID", req.InstanceID))

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"expiresAt":   time.Now().Add(h.tokenExpiresIn).Unix(),
		"isAdmin":     account.IsAdmin,
	})
}

func (h *HttpEndpoints) validateToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AdminUserClaims)
	c.JSON(http.StatusOK, gin.H{
		"id":         token.ID,
		"instanceId": token.InstanceID,
		"isAdmin":    token.IsAdmin,
	})
}
