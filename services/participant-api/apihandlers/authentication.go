package apihandlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	mw "github.com/wttaideveloper/MentalHealth-sub002/pkg/apihelpers/middlewares"
	jwthandling "github.com/wttaideveloper/MentalHealth-sub002/pkg/jwt-handling"
	emailsending "github.com/wttaideveloper/MentalHealth-sub002/pkg/messaging/email-sending"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/pwhash"
	"github.com/gin-gonic/gin"

	userTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/types"
)

const (
	allowedPasswordAttempts = 10

	passwordResetTokenTTL = time.Hour
)

func (h *HttpEndpoints) AddParticipantAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.loginWithEmail)
		authGroup.POST("/signup", mw.RequirePayload(), h.signupWithEmail)
		authGroup.POST("/password-change", mw.RequirePayload(), mw.GetAndValidateParticipantUserJWT(h.tokenSignKey), h.changePassword)
		authGroup.POST("/password-reset/request", mw.RequirePayload(), h.requestPasswordReset)
		authGroup.POST("/password-reset/confirm", mw.RequirePayload(), h.confirmPasswordReset)
		authGroup.GET("/token/validate", mw.GetAndValidateParticipantUserJWT(h.tokenSignKey), h.validateToken)
	}
}

type LoginWithEmailReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	InstanceID string `json:"instanceId"`
}

// generateSessionID creates a unique session ID using crypto/rand
func generateSessionID() (string, error) {
	bytes := make([]byte, 16) // 32 character hex string
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (h *HttpEndpoints) loginWithEmail(c *gin.Context) {
	var req LoginWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" || req.InstanceID == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		slog.Error("instance not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid instance id"})
		return
	}

	req.Email = sanitizeEmail(req.Email)

	user, err := h.userDBConn.GetUserByAccountID(req.InstanceID, req.Email)
	if err != nil {
		slog.Warn("login attempt with wrong email address", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if user.Account.FailedLoginAttempts >= allowedPasswordAttempts {
		slog.Warn("login attempt with too many failed attempts", slog.String("instanceID", req.InstanceID), slog.String("userID", user.ID.Hex()))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	match, err := pwhash.ComparePasswordWithHash(user.Account.Password, req.Password)
	if err != nil || !match {
		if err == nil {
			err = errors.New("passwords do not match")
		}
		slog.Warn("login attempt with wrong password", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		if err := h.userDBConn.UpdateFailedLoginAttempts(req.InstanceID, user.ID.Hex(), user.Account.FailedLoginAttempts+1); err != nil {
			slog.Error("failed to save failed login attempt", slog.String("error", err.Error()))
		}
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	sessionID, err := generateSessionID()
	if err != nil {
		slog.Error("failed to generate session ID", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	token, err := jwthandling.GenerateNewParticipantUserToken(
		h.tokenExpiresIn,
		user.ID.Hex(),
		req.InstanceID,
		map[string]string{},
		user.Account.AccountConfirmedAt > 0,
		h.tokenSignKey,
		sessionID,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.userDBConn.UpdateFailedLoginAttempts(req.InstanceID, user.ID.Hex(), 0); err != nil {
		slog.Error("failed to reset failed login attempts", slog.String("error", err.Error()))
	}
	if err := h.userDBConn.UpdateLoginTime(req.InstanceID, user.ID.Hex()); err != nil {
		slog.Error("failed to update login time", slog.String("error", err.Error()))
	}

	slog.Info("login successful", slog.String("subject", user.ID.Hex()), slog.String("instanceID", req.InstanceID))

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": h.tokenExpiresIn.Seconds(),
		"user":      user,
	})
}

type SignupWithEmailReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	InstanceID string `json:"instanceId"`
	Nickname   string `json:"nickname"`
	BirthYear  int    `json:"birthYear"`
	Gender     string `json:"gender"`
}

func (h *HttpEndpoints) signupWithEmail(c *gin.Context) {
	var req SignupWithEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" || req.InstanceID == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		slog.Error("instance not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid instance id"})
		return
	}

	req.Email = sanitizeEmail(req.Email)

	if err := checkPasswordFormat(req.Password); err != nil {
		slog.Warn("signup with weak password", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.userDBConn.GetUserByAccountID(req.InstanceID, req.Email); err == nil {
		slog.Warn("signup with already used email", slog.String("instanceID", req.InstanceID))
		randomWait(2, 5)
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already in use"})
		return
	}

	password, err := pwhash.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user := &userTypes.PlatformUser{
		Account: userTypes.Account{
			Type:      userTypes.ACCOUNT_TYPE_EMAIL,
			AccountID: req.Email,
			Password:  password,
		},
		Profile: userTypes.Profile{
			Nickname:  req.Nickname,
			BirthYear: req.BirthYear,
			Gender:    req.Gender,
		},
	}

	if err := h.userDBConn.CreateUser(req.InstanceID, user); err != nil {
		slog.Error("failed to create user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sessionID, err := generateSessionID()
	if err != nil {
		slog.Error("failed to generate session ID", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	token, err := jwthandling.GenerateNewParticipantUserToken(
		h.tokenExpiresIn,
		user.ID.Hex(),
		req.InstanceID,
		map[string]string{},
		false,
		h.tokenSignKey,
		sessionID,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	go func() {
		if err := emailsending.SendWelcomeEmail([]string{req.Email}, req.Nickname); err != nil {
			slog.Error("failed to send welcome email", slog.String("error", err.Error()))
		}
	}()

	slog.Info("signup successful", slog.String("subject", user.ID.Hex()), slog.String("instanceID", req.InstanceID))

	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"expiresIn": h.tokenExpiresIn.Seconds(),
		"user":      user,
	})
}

type PasswordResetRequestReq struct {
	Email      string `json:"email"`
	InstanceID string `json:"instanceId"`
}

// requestPasswordReset issues a reset token and mails it to the account
// address. The response does not reveal whether the email exists.
func (h *HttpEndpoints) requestPasswordReset(c *gin.Context) {
	var req PasswordResetRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.InstanceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		slog.Error("instance not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid instance id"})
		return
	}

	req.Email = sanitizeEmail(req.Email)

	user, err := h.userDBConn.GetUserByAccountID(req.InstanceID, req.Email)
	if err != nil {
		slog.Warn("password reset request for unknown email", slog.String("instanceID", req.InstanceID))
		randomWait(2, 5)
		c.JSON(http.StatusOK, gin.H{"message": "if the email exists, a reset code was sent"})
		return
	}

	token, err := generateSessionID()
	if err != nil {
		slog.Error("failed to generate reset token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.userDBConn.SavePasswordResetToken(req.InstanceID, user.ID.Hex(), token); err != nil {
		slog.Error("failed to save reset token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	go func() {
		if err := emailsending.SendPasswordResetEmail([]string{req.Email}, user.Profile.Nickname, token); err != nil {
			slog.Error("failed to send password reset email", slog.String("error", err.Error()))
		}
	}()

	slog.Info("password reset requested", slog.String("subject", user.ID.Hex()), slog.String("instanceID", req.InstanceID))
	c.JSON(http.StatusOK, gin.H{"message": "if the email exists, a reset code was sent"})
}

type PasswordResetConfirmReq struct {
	Email       string `json:"email"`
	InstanceID  string `json:"instanceId"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *HttpEndpoints) confirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.InstanceID == "" || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !h.isInstanceAllowed(req.InstanceID) {
		slog.Error("instance not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid instance id"})
		return
	}

	if err := checkPasswordFormat(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = sanitizeEmail(req.Email)

	user, err := h.userDBConn.GetUserByAccountID(req.InstanceID, req.Email)
	if err != nil {
		slog.Warn("password reset confirm for unknown email", slog.String("instanceID", req.InstanceID))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid reset token"})
		return
	}

	tokenExpired := time.Now().Unix()-user.Account.PasswordResetAt > int64(passwordResetTokenTTL.Seconds())
	if user.Account.PasswordResetToken == "" || user.Account.PasswordResetToken != req.Token || tokenExpired {
		slog.Warn("password reset with invalid token", slog.String("subject", user.ID.Hex()), slog.String("instanceID", req.InstanceID))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid reset token"})
		return
	}

	newHash, err := pwhash.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.userDBConn.UpdateAccountPassword(req.InstanceID, user.ID.Hex(), newHash); err != nil {
		slog.Error("failed to update password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.userDBConn.SavePasswordResetToken(req.InstanceID, user.ID.Hex(), ""); err != nil {
		slog.Error("failed to clear reset token", slog.String("error", err.Error()))
	}
	if err := h.userDBConn.UpdateFailedLoginAttempts(req.InstanceID, user.ID.Hex(), 0); err != nil {
		slog.Error("failed to reset failed login attempts", slog.String("error", err.Error()))
	}

	slog.Info("password reset completed", slog.String("subject", user.ID.Hex()), slog.String("instanceID", req.InstanceID))
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *HttpEndpoints) changePassword(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ParticipantUserClaims)

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := checkPasswordFormat(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userDBConn.GetUserByID(token.InstanceID, token.Subject)
	if err != nil {
		slog.Error("user not found", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return
	}

	match, err := pwhash.ComparePasswordWithHash(user.Account.Password, req.OldPassword)
	if err != nil || !match {
		slog.Warn("password change with wrong old password", slog.String("userID", user.ID.Hex()))
		randomWait(2, 5)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	newHash, err := pwhash.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.userDBConn.UpdateAccountPassword(token.InstanceID, user.ID.Hex(), newHash); err != nil {
		slog.Error("failed to update password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("password changed", slog.String("subject", user.ID.Hex()), slog.String("instanceID", token.InstanceID))
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *HttpEndpoints) validateToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ParticipantUserClaims)
	c.JSON(http.StatusOK, gin.H{
		"subject":    token.Subject,
		"instanceId": token.InstanceID,
	})
}
