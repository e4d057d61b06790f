package social

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naimatofficial/linkmood-app/models"
)

// ErrNotFound is returned by stores when the requested document does
// not exist. The service maps it to the not-found failure kind.
var ErrNotFound = errors.New("document not found")

// AccountStore persists auth identities.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// SessionStore persists signed-in sessions.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Session, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore persists profile documents.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*models.User, error)
	List(ctx context.Context, limit int64) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// PostStore persists post documents.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// UpdateLikes replaces the stored likes array wholesale and returns
	// the updated post. Not additive: the caller supplies the full
	// array, so concurrent likers can lose updates.
	UpdateLikes(ctx context.Context, id primitive.ObjectID, likes []string) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Recent(ctx context.Context, limit int64) ([]models.Post, error)
	Search(ctx context.Context, term string, limit int64) ([]models.Post, error)
	ByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Post, error)
	LikedBy(ctx context.Context, userID string) ([]models.Post, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
}

// SaveStore persists the user-saved-post join records.
type SaveStore interface {
	Create(ctx context.Context, save *models.Save) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Save, error)
}

// FileStore is the hosted file storage (Cloudinary in production).
type FileStore interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
	PreviewURL(fileID string) (string, error)
	Delete(ctx context.Context, fileID string) error
}
