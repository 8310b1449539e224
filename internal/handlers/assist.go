package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type greetingBody struct {
	Occasion      string `json:"occasion" binding:"required"`
	RecipientName string `json:"recipientName" binding:"required"`
}

func (h HandlerSet) SuggestGreeting(c *gin.Context) {
	var body greetingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestion": h.assist.SuggestGreeting(c.Request.Context(), body.Occasion, body.RecipientName),
	})
}

// suggestionsBody names either a stored request or the raw fields.
type suggestionsBody struct {
	RequestID     string `json:"requestId"`
	Occasion      string `json:"occasion"`
	RecipientName string `json:"recipientName"`
	FanMessage    string `json:"fanMessage"`
}

func (h HandlerSet) AdminSuggestions(c *gin.Context) {
	var body suggestionsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.RequestID != "" {
		req, err := h.requests.GetByID(c.Request.Context(), body.RequestID)
		if err != nil {
			h.fail(c, err)
			return
		}
		body.Occasion = req.Occasion
		body.RecipientName = req.RecipientName
		body.FanMessage = req.MessageDetails
	}
	if body.Occasion == "" || body.RecipientName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requestId or occasion and recipientName required"})
		return
	}

	c.JSON(http.StatusOK, h.assist.SuggestAdminContent(c.Request.Context(), body.Occasion, body.RecipientName, body.FanMessage))
}

type imageConceptBody struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (h HandlerSet) AdminImageConcept(c *gin.Context) {
	var body imageConceptBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imageUrl": h.assist.GenerateImageConcept(c.Request.Context(), body.Prompt),
	})
}
