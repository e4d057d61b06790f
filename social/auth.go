package social

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/naimatofficial/linkmood-app/apperr"
	"github.com/naimatofficial/linkmood-app/cache"
	"github.com/naimatofficial/linkmood-app/models"
)

type NewUser struct {
	Name     string
	Email    string
	Password string
	Username string
}

// CreateUserAccount creates the auth identity, then the linked profile
// document with a derived initials avatar. Two sequential writes with
// no transaction: if the profile insert fails, the account stays behind
// as an orphan. That matches the original behavior and is deliberately
// not compensated.
func (s *Service) CreateUserAccount(ctx context.Context, in NewUser) (*models.User, error) {
	const op = "social.CreateUserAccount"

	_, err := s.accounts.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperr.Errorf(apperr.KindInvalid, op, "email already in use")
	case !errors.Is(err, ErrNotFound):
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	account := &models.Account{
		ID:           primitive.NewObjectID(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		CreatedAt:    s.now().Unix(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		AccountID: account.ID,
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		ImageURL:  s.defaultAvatarURL(in.Name),
		CreatedAt: s.now().Unix(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Printf("social: account %s left without a profile: %v", account.ID.Hex(), err)
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	s.cache.InvalidateOp(cache.OpUsers)
	return user, nil
}

// SignInAccount verifies the credentials and creates a session
// document. Token minting is the transport layer's job.
func (s *Service) SignInAccount(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "social.SignInAccount"

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Errorf(apperr.KindUnauthorized, op, "invalid email or password")
	}
	if err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Errorf(apperr.KindUnauthorized, op, "invalid email or password")
	}

	session := &models.Session{
		ID:        primitive.NewObjectID(),
		AccountID: account.ID,
		CreatedAt: s.now().Unix(),
		ExpiresAt: s.now().Add(s.sessionTTL).Unix(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}
	return session, nil
}

// SignOutAccount deletes the session document and drops every cached
// query, so nothing user-scoped outlives the session.
func (s *Service) SignOutAccount(ctx context.Context, sessionID primitive.ObjectID) error {
	const op = "social.SignOutAccount"

	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrNotFound) {
		return apperr.E(apperr.KindUnavailable, op, err)
	}
	s.cache.Flush()
	return nil
}

// GetCurrentUser resolves the session, then the profile it belongs to.
// The two reads are strictly sequential; a failure at either step
// surfaces as a typed error.
func (s *Service) GetCurrentUser(ctx context.Context, sessionID primitive.ObjectID) (*models.User, error) {
	const op = "social.GetCurrentUser"

	key := cache.Key{Op: cache.OpCurrentUser, Arg: sessionID.Hex()}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (*models.User, error) {
		session, err := s.sessions.Get(ctx, sessionID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Errorf(apperr.KindUnauthorized, op, "no active session")
		}
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		if session.ExpiresAt < s.now().Unix() {
			return nil, apperr.Errorf(apperr.KindUnauthorized, op, "session expired")
		}

		user, err := s.users.GetByAccountID(ctx, session.AccountID)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, op, "no profile for account %s", session.AccountID.Hex())
		}
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return user, nil
	})
}
