package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"celebrisaludos/internal/middleware"
	"celebrisaludos/internal/models"
	"celebrisaludos/internal/security"
	"celebrisaludos/internal/service"
)

const deviceIDHeader = "X-Device-Id"

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	DeviceID string `json:"deviceId"`
}

type authResponse struct {
	AccessToken string      `json:"accessToken"`
	DeviceID    string      `json:"deviceId"`
	User        models.User `json:"user"`
}

func (h HandlerSet) SignUp(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := resolveDevice(c, req.DeviceID)
	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		DeviceID: deviceID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAuthResponse(c, http.StatusCreated, user, deviceID)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := resolveDevice(c, req.DeviceID)
	user, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		DeviceID: deviceID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAuthResponse(c, http.StatusOK, user, deviceID)
}

func (h HandlerSet) Logout(c *gin.Context) {
	claims, ok := middleware.AccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_claims"})
		return
	}

	h.authService.Logout(c.Request.Context(), claims.DeviceID)
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"isAdmin": h.authService.IsAdmin(user),
	})
}

func (h HandlerSet) sendAuthResponse(c *gin.Context, status int, user models.User, deviceID string) {
	token, err := security.GenerateAccessToken(h.cfg.Security.JWTAccessSecret, user.ID, deviceID, string(user.Role), h.cfg.Security.JWTAccessTTL)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(status, authResponse{
		AccessToken: token,
		DeviceID:    deviceID,
		User:        user,
	})
}

// resolveDevice prefers the body field, then the header, then the shared default device.
func resolveDevice(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if header := c.GetHeader(deviceIDHeader); header != "" {
		return header
	}
	return service.DefaultDevice
}
