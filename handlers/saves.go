package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SaveRequest struct {
	PostID string `json:"postId" binding:"required"`
}

func (h *Handler) SavePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid postId"})
		return
	}

	save, err := h.svc.SavePost(c.Request.Context(), userID, postID)
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, save)
}

// DeleteSavedPost unsaves by the join record's own id, which the saved
// view already holds.
func (h *Handler) DeleteSavedPost(c *gin.Context) {
	saveID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteSavedPost(c.Request.Context(), saveID); err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "save removed"})
}

func (h *Handler) GetSavedPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	saved, err := h.svc.GetSavedPosts(c.Request.Context(), userID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
