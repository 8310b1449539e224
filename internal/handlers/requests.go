package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"celebrisaludos/internal/middleware"
	"celebrisaludos/internal/models"
	"celebrisaludos/internal/service"
)

type createRequestBody struct {
	PackageID      string `json:"packageId" binding:"required"`
	RecipientName  string `json:"recipientName" binding:"required"`
	Occasion       string `json:"occasion" binding:"required"`
	MessageDetails string `json:"messageDetails" binding:"required,min=10"`
}

func (h HandlerSet) CreateRequest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := user.Name
	if name == "" {
		name = user.Email
	}

	req, err := h.requests.Create(c.Request.Context(), service.CreateRequestInput{
		UserID:         user.ID,
		UserName:       name,
		PackageID:      body.PackageID,
		RecipientName:  body.RecipientName,
		Occasion:       body.Occasion,
		MessageDetails: body.MessageDetails,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (h HandlerSet) ListMyRequests(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.requests.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": list})
}

func (h HandlerSet) GetRequest(c *gin.Context) {
	req, ok := h.ownedRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func (h HandlerSet) ConfirmPayment(c *gin.Context) {
	if _, ok := h.ownedRequest(c); !ok {
		return
	}

	req, err := h.requests.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}

// ownedRequest loads :id for its owner or an admin. Other callers get 404.
func (h HandlerSet) ownedRequest(c *gin.Context) (models.ShoutoutRequest, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.ShoutoutRequest{}, false
	}

	req, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return models.ShoutoutRequest{}, false
	}

	if req.UserID != user.ID && !h.authService.IsAdmin(user) {
		c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found"})
		return models.ShoutoutRequest{}, false
	}
	return req, true
}
