package social

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naimatofficial/linkmood-app/apperr"
	"github.com/naimatofficial/linkmood-app/cache"
	"github.com/naimatofficial/linkmood-app/models"
)

// GetRecentPosts returns the newest posts, creation time descending,
// capped at a fixed page size. No cursor.
func (s *Service) GetRecentPosts(ctx context.Context) ([]models.Post, error) {
	const op = "social.GetRecentPosts"

	key := cache.Key{Op: cache.OpRecentPosts}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]models.Post, error) {
		posts, err := s.posts.Recent(ctx, recentPostsLimit)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return posts, nil
	})
}

// SearchPosts matches the term against post captions.
func (s *Service) SearchPosts(ctx context.Context, term string) ([]models.Post, error) {
	const op = "social.SearchPosts"

	key := cache.Key{Op: cache.OpSearchPosts, Arg: term}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]models.Post, error) {
		posts, err := s.posts.Search(ctx, term, recentPostsLimit)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return posts, nil
	})
}

func (s *Service) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	const op = "social.GetPostByID"

	key := cache.Key{Op: cache.OpPostByID, Arg: id.Hex()}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (*models.Post, error) {
		post, err := s.posts.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, op, "post %s", id.Hex())
		}
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return post, nil
	})
}

func (s *Service) GetUserPosts(ctx context.Context, creatorID primitive.ObjectID) ([]models.Post, error) {
	const op = "social.GetUserPosts"

	key := cache.Key{Op: cache.OpUserPosts, Arg: creatorID.Hex()}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]models.Post, error) {
		posts, err := s.posts.ByCreator(ctx, creatorID)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return posts, nil
	})
}

// GetLikedPosts returns the posts whose likes array contains the user.
func (s *Service) GetLikedPosts(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	const op = "social.GetLikedPosts"

	key := cache.Key{Op: cache.OpLikedPosts, Arg: userID.Hex()}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]models.Post, error) {
		posts, err := s.posts.LikedBy(ctx, userID.Hex())
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return posts, nil
	})
}

// SavedPost pairs a bookmark with the post it points at, so the saved
// view can unsave by record id.
type SavedPost struct {
	Save models.Save `json:"save"`
	Post models.Post `json:"post"`
}

// GetSavedPosts resolves the user's join records to their posts. Saves
// whose post has since been deleted are skipped.
func (s *Service) GetSavedPosts(ctx context.Context, userID primitive.ObjectID) ([]SavedPost, error) {
	const op = "social.GetSavedPosts"

	key := cache.Key{Op: cache.OpSavedPosts, Arg: userID.Hex()}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]SavedPost, error) {
		saves, err := s.saves.ListByUser(ctx, userID)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		if len(saves) == 0 {
			return []SavedPost{}, nil
		}

		ids := make([]primitive.ObjectID, 0, len(saves))
		for _, sv := range saves {
			ids = append(ids, sv.PostID)
		}
		posts, err := s.posts.ByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}

		byID := make(map[primitive.ObjectID]models.Post, len(posts))
		for _, p := range posts {
			byID[p.ID] = p
		}

		out := make([]SavedPost, 0, len(saves))
		for _, sv := range saves {
			post, ok := byID[sv.PostID]
			if !ok {
				continue
			}
			out = append(out, SavedPost{Save: sv, Post: post})
		}
		return out, nil
	})
}

func (s *Service) GetUsers(ctx context.Context, limit int64) ([]models.User, error) {
	const op = "social.GetUsers"

	key := cache.Key{Op: cache.OpUsers, Arg: strconv.FormatInt(limit, 10)}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) ([]models.User, error) {
		users, err := s.users.List(ctx, limit)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return users, nil
	})
}

func (s *Service) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	const op = "social.GetUserByID"

	key := cache.Key{Op: cache.OpUserByID, Arg: id.Hex()}
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (*models.User, error) {
		user, err := s.users.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Errorf(apperr.KindNotFound, op, "user %s", id.Hex())
		}
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return user, nil
	})
}
