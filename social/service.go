// Package social implements the logical operations of the app: account
// and session management, post mutations with compensating cleanup of
// uploaded files, likes, saves, and the cached read queries. Everything
// remote is behind a store port; this package owns only orchestration.
package social

import (
	"net/url"
	"time"

	"github.com/naimatofficial/linkmood-app/cache"
)

const recentPostsLimit = 20

type Service struct {
	accounts AccountStore
	sessions SessionStore
	users    UserStore
	posts    PostStore
	saves    SaveStore
	files    FileStore

	cache      *cache.Cache
	avatarURL  string
	sessionTTL time.Duration
	now        func() time.Time
}

// Deps names the service's collaborators so construction sites stay
// readable.
type Deps struct {
	Accounts AccountStore
	Sessions SessionStore
	Users    UserStore
	Posts    PostStore
	Saves    SaveStore
	Files    FileStore
	Cache    *cache.Cache

	// AvatarURL is the initials-avatar endpoint used for default
	// profile images.
	AvatarURL  string
	SessionTTL time.Duration
}

func New(d Deps) *Service {
	if d.SessionTTL == 0 {
		d.SessionTTL = 24 * time.Hour
	}
	if d.Cache == nil {
		d.Cache = cache.New()
	}
	return &Service{
		accounts:   d.Accounts,
		sessions:   d.Sessions,
		users:      d.Users,
		posts:      d.Posts,
		saves:      d.Saves,
		files:      d.Files,
		cache:      d.Cache,
		avatarURL:  d.AvatarURL,
		sessionTTL: d.SessionTTL,
		now:        time.Now,
	}
}

// Cache exposes the query cache so the transport layer can subscribe to
// invalidation events.
func (s *Service) Cache() *cache.Cache { return s.cache }

func (s *Service) defaultAvatarURL(name string) string {
	return s.avatarURL + "?name=" + url.QueryEscape(name)
}
