package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naimatofficial/linkmood-app/apperr"
	"github.com/naimatofficial/linkmood-app/config"
	"github.com/naimatofficial/linkmood-app/middleware"
	"github.com/naimatofficial/linkmood-app/social"
)

// Handler carries the handlers' shared dependencies. Route functions
// hang off it instead of package globals.
type Handler struct {
	svc  *social.Service
	push *PushNotifier
	cfg  *config.Config
}

func New(svc *social.Service, push *PushNotifier, cfg *config.Config) *Handler {
	return &Handler{svc: svc, push: push, cfg: cfg}
}

// statusOf maps failure kinds to HTTP statuses. Handlers never inspect
// error strings; the kind is the whole contract.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnavailable, apperr.KindCompensated:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortErr(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(statusOf(err), gin.H{
		"error": err.Error(),
		"kind":  apperr.KindOf(err).String(),
	})
}

// ctxObjectID reads an ObjectID the JWT middleware stored in the
// request context.
func ctxObjectID(c *gin.Context, key string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(key))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid " + key})
		c.Abort()
		return primitive.NilObjectID, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	return ctxObjectID(c, middleware.CtxUserID)
}

func currentSessionID(c *gin.Context) (primitive.ObjectID, bool) {
	return ctxObjectID(c, middleware.CtxSessionID)
}

// paramObjectID parses a hex id path parameter.
func paramObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}
