package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/naimatofficial/linkmood-app/social"
)

const defaultUserListLimit = 10

func (h *Handler) GetUsers(c *gin.Context) {
	limit := int64(defaultUserListLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	users, err := h.svc.GetUsers(c.Request.Context(), limit)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateProfileForm struct {
	Name string `form:"name" binding:"required"`
	Bio  string `form:"bio" binding:"max=2200"`
}

// UpdateProfile edits the signed-in user's profile. The avatar comes as
// an optional multipart "file"; replacing it follows the same ordering
// as post image replacement (document first, old file after).
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var form UpdateProfileForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := social.UpdateUserInput{
		UserID: userID,
		Name:   form.Name,
		Bio:    form.Bio,
	}
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		in.File = file
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), in)
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
