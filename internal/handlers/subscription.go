package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"localit/internal/models"
	"localit/internal/repositories"
)

// SubscriptionHandler manages series/group subscriptions.
type SubscriptionHandler struct {
	subs repositories.SubscriptionRepository
}

// NewSubscriptionHandler builds a SubscriptionHandler.
func NewSubscriptionHandler(subs repositories.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

type subscriptionRequest struct {
	TargetKind models.SubscriptionTarget `json:"target_kind" binding:"required"`
	TargetID   int                       `json:"target_id" binding:"required"`
}

func (r subscriptionRequest) valid() bool {
	return r.TargetKind == models.SubscribeSeries || r.TargetKind == models.SubscribeGroup
}

// List returns the caller's subscriptions.
func (h *SubscriptionHandler) List(c *gin.Context) {
	subs, err := h.subs.ListForUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// Subscribe adds a subscription; resubscribing is idempotent.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_kind must be SERIES or GROUP"})
		return
	}

	sub, err := h.subs.Subscribe(c.Request.Context(), c.GetInt("userID"), req.TargetKind, req.TargetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not subscribe"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe removes a subscription.
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.subs.Unsubscribe(c.Request.Context(), c.GetInt("userID"), req.TargetKind, req.TargetID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unsubscribe"})
		return
	}
	c.Status(http.StatusNoContent)
}
