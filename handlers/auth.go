package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/naimatofficial/linkmood-app/middleware"
	"github.com/naimatofficial/linkmood-app/social"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=2,username"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.CreateUserAccount(c.Request.Context(), social.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	session, err := h.svc.SignInAccount(ctx, req.Email, req.Password)
	if err != nil {
		abortErr(c, err)
		return
	}

	user, err := h.svc.GetCurrentUser(ctx, session.ID)
	if err != nil {
		abortErr(c, err)
		return
	}

	claims := &middleware.Claims{
		AccountID: session.AccountID.Hex(),
		SessionID: session.ID.Hex(),
		UserID:    user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Unix(session.ExpiresAt, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) SignOut(c *gin.Context) {
	sessionID, ok := currentSessionID(c)
	if !ok {
		return
	}

	if err := h.svc.SignOutAccount(c.Request.Context(), sessionID); err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me resolves the session to the signed-in profile. Two sequential
// reads behind the scenes; a stale or revoked session comes back 401.
func (h *Handler) Me(c *gin.Context) {
	sessionID, ok := currentSessionID(c)
	if !ok {
		return
	}

	user, err := h.svc.GetCurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
