package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"celebrisaludos/internal/models"
	"celebrisaludos/internal/service"
)

func (h HandlerSet) AdminListRequests(c *gin.Context) {
	var (
		list []models.ShoutoutRequest
		err  error
	)

	if raw := c.Query("status"); raw != "" && raw != service.AllStatuses {
		status, parseErr := models.ParseRequestStatus(raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		list, err = h.requests.ListByStatus(c.Request.Context(), status)
	} else {
		list, err = h.requests.ListAll(c.Request.Context())
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": list})
}

func (h HandlerSet) AdminRequestStats(c *gin.Context) {
	counts, err := h.requests.StatusCounts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

func (h HandlerSet) AdminGetRequest(c *gin.Context) {
	req, err := h.requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

type updateStatusBody struct {
	Status                string  `json:"status" binding:"required"`
	AdminNotes            *string `json:"adminNotes"`
	VideoURL              *string `json:"videoUrl"`
	CelebrityMessageToFan *string `json:"celebrityMessageToFan"`
	AIImageConceptURL     *string `json:"aiImageConceptUrl"`
}

func (h HandlerSet) AdminUpdateStatus(c *gin.Context) {
	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := models.ParseRequestStatus(body.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requests.UpdateStatus(c.Request.Context(), c.Param("id"), service.UpdateStatusInput{
		Status:                status,
		AdminNotes:            body.AdminNotes,
		VideoURL:              body.VideoURL,
		CelebrityMessageToFan: body.CelebrityMessageToFan,
		AIImageConceptURL:     body.AIImageConceptURL,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}
