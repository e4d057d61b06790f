package social

import (
	"context"
	"errors"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naimatofficial/linkmood-app/apperr"
	"github.com/naimatofficial/linkmood-app/cache"
	"github.com/naimatofficial/linkmood-app/models"
	"github.com/naimatofficial/linkmood-app/saga"
)

type NewPost struct {
	CreatorID primitive.ObjectID
	Caption   string
	File      io.Reader
	Tags      string
	Location  string
}

type UpdatePostInput struct {
	PostID   primitive.ObjectID
	Caption  string
	Tags     string
	Location string
	// File is the replacement image; nil keeps the existing one.
	File io.Reader
}

// CreatePost uploads the image, derives its served URL, and creates the
// post document, in that order. A post must never reference a file that
// is not in storage, so a failure after the upload deletes the uploaded
// file before the error surfaces.
func (s *Service) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	const op = "social.CreatePost"

	if in.File == nil {
		return nil, apperr.Errorf(apperr.KindInvalid, op, "post image is required")
	}

	var (
		fileID   string
		imageURL string
		post     *models.Post
	)

	err := saga.Run(ctx, []saga.Step{
		{
			Name: "upload file",
			Run: func(ctx context.Context) error {
				id, err := s.files.Upload(ctx, in.File)
				if err != nil {
					return err
				}
				fileID = id
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.files.Delete(ctx, fileID)
			},
		},
		{
			Name: "derive preview url",
			Run: func(ctx context.Context) error {
				u, err := s.files.PreviewURL(fileID)
				if err != nil {
					return err
				}
				imageURL = u
				return nil
			},
		},
		{
			Name: "create post document",
			Run: func(ctx context.Context) error {
				post = &models.Post{
					ID:        primitive.NewObjectID(),
					CreatorID: in.CreatorID,
					Caption:   in.Caption,
					ImageURL:  imageURL,
					ImageID:   fileID,
					Location:  in.Location,
					Tags:      NormalizeTags(in.Tags),
					Likes:     []string{},
					CreatedAt: s.now().Unix(),
				}
				return s.posts.Create(ctx, post)
			},
		},
	})
	if err != nil {
		return nil, sagaErr(op, err)
	}

	s.invalidatePostQueries(post.ID, in.CreatorID)
	return post, nil
}

// UpdatePost rewrites the post's fields. A new file, when supplied, is
// uploaded first; the document update then swaps the reference, and
// only after that update succeeds is the old file deleted, so the
// stored document never points at a missing file. A failed update
// deletes the new upload and leaves the original image referenced.
func (s *Service) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	const op = "social.UpdatePost"

	existing, err := s.posts.GetByID(ctx, in.PostID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Errorf(apperr.KindNotFound, op, "post %s", in.PostID.Hex())
	}
	if err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	oldFileID := existing.ImageID
	updated := *existing
	updated.Caption = in.Caption
	updated.Location = in.Location
	updated.Tags = NormalizeTags(in.Tags)

	hasNewFile := in.File != nil
	var newFileID string

	steps := []saga.Step{}
	if hasNewFile {
		steps = append(steps,
			saga.Step{
				Name: "upload file",
				Run: func(ctx context.Context) error {
					id, err := s.files.Upload(ctx, in.File)
					if err != nil {
						return err
					}
					newFileID = id
					return nil
				},
				Compensate: func(ctx context.Context) error {
					return s.files.Delete(ctx, newFileID)
				},
			},
			saga.Step{
				Name: "derive preview url",
				Run: func(ctx context.Context) error {
					u, err := s.files.PreviewURL(newFileID)
					if err != nil {
						return err
					}
					updated.ImageID = newFileID
					updated.ImageURL = u
					return nil
				},
			},
		)
	}
	steps = append(steps, saga.Step{
		Name: "update post document",
		Run: func(ctx context.Context) error {
			return s.posts.Update(ctx, &updated)
		},
	})

	if err := saga.Run(ctx, steps); err != nil {
		return nil, sagaErr(op, err)
	}

	// The document now references the new file; the old one is
	// unreachable and can go. Failures here only orphan a file.
	if hasNewFile && oldFileID != "" {
		if err := s.files.Delete(ctx, oldFileID); err != nil {
			log.Printf("social: deleting replaced file %s: %v", oldFileID, err)
		}
	}

	s.invalidatePostQueries(updated.ID, updated.CreatorID)
	return &updated, nil
}

// DeletePost removes the document, then its file. Both identifiers are
// required; if either is missing the call is a silent no-op and nothing
// remote happens. A failed file deletion is ignored: an orphaned file
// is acceptable, a dangling document reference is not.
func (s *Service) DeletePost(ctx context.Context, postID, imageID string) error {
	const op = "social.DeletePost"

	if postID == "" || imageID == "" {
		return nil
	}

	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return apperr.E(apperr.KindInvalid, op, err)
	}

	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.Errorf(apperr.KindNotFound, op, "post %s", postID)
	}
	if err != nil {
		return apperr.E(apperr.KindUnavailable, op, err)
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return apperr.E(apperr.KindUnavailable, op, err)
	}

	if err := s.files.Delete(ctx, imageID); err != nil {
		log.Printf("social: deleting file %s of removed post %s: %v", imageID, postID, err)
	}

	s.invalidatePostQueries(id, post.CreatorID)
	return nil
}

// LikePost replaces the post's likes array with the caller-supplied
// one. Full overwrite, not a merge: the caller computed the new array
// from the one it last read, and two concurrent likers who both read
// the same base will silently drop one like (last writer wins).
func (s *Service) LikePost(ctx context.Context, postID primitive.ObjectID, likes []string) (*models.Post, error) {
	const op = "social.LikePost"

	if likes == nil {
		likes = []string{}
	}
	post, err := s.posts.UpdateLikes(ctx, postID, likes)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Errorf(apperr.KindNotFound, op, "post %s", postID.Hex())
	}
	if err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	s.cache.Invalidate(
		cache.Key{Op: cache.OpRecentPosts},
		cache.Key{Op: cache.OpPostByID, Arg: postID.Hex()},
	)
	s.cache.InvalidateOp(cache.OpLikedPosts)
	return post, nil
}

// SavePost creates the bookmark join record. There is no uniqueness
// check: saving the same post twice produces two records.
func (s *Service) SavePost(ctx context.Context, userID, postID primitive.ObjectID) (*models.Save, error) {
	const op = "social.SavePost"

	save := &models.Save{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: s.now().Unix(),
	}
	if err := s.saves.Create(ctx, save); err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	s.cache.Invalidate(
		cache.Key{Op: cache.OpRecentPosts},
		cache.Key{Op: cache.OpSavedPosts, Arg: userID.Hex()},
	)
	return save, nil
}

// DeleteSavedPost removes a bookmark by the join record's own id.
func (s *Service) DeleteSavedPost(ctx context.Context, saveID primitive.ObjectID) error {
	const op = "social.DeleteSavedPost"

	err := s.saves.Delete(ctx, saveID)
	if errors.Is(err, ErrNotFound) {
		return apperr.Errorf(apperr.KindNotFound, op, "save %s", saveID.Hex())
	}
	if err != nil {
		return apperr.E(apperr.KindUnavailable, op, err)
	}

	s.cache.Invalidate(cache.Key{Op: cache.OpRecentPosts})
	s.cache.InvalidateOp(cache.OpSavedPosts)
	return nil
}

func (s *Service) invalidatePostQueries(postID, creatorID primitive.ObjectID) {
	s.cache.Invalidate(
		cache.Key{Op: cache.OpRecentPosts},
		cache.Key{Op: cache.OpPostByID, Arg: postID.Hex()},
		cache.Key{Op: cache.OpUserPosts, Arg: creatorID.Hex()},
	)
	s.cache.InvalidateOp(cache.OpSearchPosts, cache.OpLikedPosts, cache.OpSavedPosts)
}

// sagaErr classifies a saga failure: compensated when rollback actions
// ran, plain unavailable otherwise.
func sagaErr(op string, err error) error {
	var serr *saga.Error
	if errors.As(err, &serr) && serr.Compensated > 0 {
		return apperr.E(apperr.KindCompensated, op, err)
	}
	return apperr.E(apperr.KindUnavailable, op, err)
}
