package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naimatofficial/linkmood-app/social"
)

type PostForm struct {
	Caption  string `form:"caption" binding:"required,max=2200"`
	Tags     string `form:"tags"`
	Location string `form:"location,omitempty"`
}

// CreatePost accepts a multipart form with the post fields and the
// image under "file". The image is mandatory for new posts.
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post image is required"})
		return
	}
	defer file.Close()

	post, err := h.svc.CreatePost(c.Request.Context(), social.NewPost{
		CreatorID: userID,
		Caption:   form.Caption,
		File:      file,
		Tags:      form.Tags,
		Location:  form.Location,
	})
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost accepts the same multipart form; "file" is optional and
// absent means the existing image stays.
func (h *Handler) UpdatePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := social.UpdatePostInput{
		PostID:   postID,
		Caption:  form.Caption,
		Tags:     form.Tags,
		Location: form.Location,
	}
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		in.File = file
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), in)
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost requires both the post id and its image id, mirroring the
// wrapper contract: with either missing, the service does nothing and
// the client gets a 200 with no deletion performed.
func (h *Handler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	imageID := c.Query("imageId")

	if err := h.svc.DeletePost(c.Request.Context(), postID, imageID); err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

type LikeRequest struct {
	// Likes is the complete new likes array, computed by the client
	// from the array it last read. Full replace, not a merge.
	Likes []string `json:"likes"`
}

func (h *Handler) LikePost(c *gin.Context) {
	postID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.svc.LikePost(c.Request.Context(), postID, req.Likes)
	if err != nil {
		abortErr(c, err)
		return
	}

	// Tell the creator, unless they liked their own post.
	if userID, ok := currentUserID(c); ok && userID != post.CreatorID {
		h.push.NotifyLike(c.Request.Context(), post)
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetRecentPosts(c *gin.Context) {
	posts, err := h.svc.GetRecentPosts(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) SearchPosts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	posts, err := h.svc.SearchPosts(c.Request.Context(), term)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPostByID(c *gin.Context) {
	postID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}

	post, err := h.svc.GetPostByID(c.Request.Context(), postID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetUserPosts(c *gin.Context) {
	userID, ok := paramObjectID(c, "id")
	if !ok {
		return
	}

	posts, err := h.svc.GetUserPosts(c.Request.Context(), userID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetLikedPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	posts, err := h.svc.GetLikedPosts(c.Request.Context(), userID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
