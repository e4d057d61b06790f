package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naimatofficial/linkmood-app/config"
	"github.com/naimatofficial/linkmood-app/database"
	"github.com/naimatofficial/linkmood-app/models"
)

// PushNotifier sends web-push messages to a user's subscribed browsers.
// Delivery is best-effort: failures are logged and dead subscriptions
// pruned, never surfaced to the triggering request.
type PushNotifier struct {
	subs       *database.PushSubStore
	publicKey  string
	privateKey string
	subscriber string
}

func NewPushNotifier(subs *database.PushSubStore, cfg *config.Config) *PushNotifier {
	return &PushNotifier{
		subs:       subs,
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subscriber: cfg.VAPIDSubscriber,
	}
}

func (n *PushNotifier) enabled() bool {
	return n.publicKey != "" && n.privateKey != ""
}

// NotifyLike pushes a "your post was liked" message to the creator.
func (n *PushNotifier) NotifyLike(ctx context.Context, post *models.Post) {
	if !n.enabled() {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"title": "New like",
		"body":  "Someone liked your post",
		"data":  map[string]string{"postId": post.ID.Hex()},
	})
	if err != nil {
		return
	}

	// Detached from the request: the like already succeeded.
	go n.send(post.CreatorID, payload)
}

func (n *PushNotifier) send(userID primitive.ObjectID, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	subs, err := n.subs.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("push: listing subscriptions for %s: %v", userID.Hex(), err)
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      n.subscriber,
			VAPIDPublicKey:  n.publicKey,
			VAPIDPrivateKey: n.privateKey,
			TTL:             60,
		})
		if err != nil {
			log.Printf("push: sending to %s: %v", sub.Sub.Endpoint, err)
			continue
		}
		resp.Body.Close()

		// 404/410 mean the browser dropped the subscription.
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			if err := n.subs.DeleteByEndpoint(ctx, sub.Sub.Endpoint); err != nil {
				log.Printf("push: pruning %s: %v", sub.Sub.Endpoint, err)
			}
		}
	}
}

func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if !h.push.enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": h.push.publicKey})
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

func (h *Handler) SubscribePush(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &models.PushSubscription{
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}
	if err := h.push.subs.Upsert(c.Request.Context(), sub); err != nil {
		abortErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "subscribed"})
}
