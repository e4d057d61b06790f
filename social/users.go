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

type UpdateUserInput struct {
	UserID primitive.ObjectID
	Name   string
	Bio    string
	// File is a replacement avatar; nil keeps the current image.
	File io.Reader
}

// UpdateUser rewrites the profile's editable fields. Avatar replacement
// follows the same ordering discipline as post updates: the new file is
// uploaded first, the document swap happens, and only then is the old
// avatar file deleted. The default initials avatar has no file behind
// it, so there is nothing to delete when replacing it.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	const op = "social.UpdateUser"

	existing, err := s.users.GetByID(ctx, in.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.Errorf(apperr.KindNotFound, op, "user %s", in.UserID.Hex())
	}
	if err != nil {
		return nil, apperr.E(apperr.KindUnavailable, op, err)
	}

	oldFileID := existing.ImageID
	updated := *existing
	updated.Name = in.Name
	updated.Bio = in.Bio

	hasNewFile := in.File != nil
	var newFileID string

	steps := []saga.Step{}
	if hasNewFile {
		steps = append(steps,
			saga.Step{
				Name: "upload avatar",
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
				Name: "derive avatar url",
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
		Name: "update user document",
		Run: func(ctx context.Context) error {
			return s.users.Update(ctx, &updated)
		},
	})

	if err := saga.Run(ctx, steps); err != nil {
		return nil, sagaErr(op, err)
	}

	if hasNewFile && oldFileID != "" {
		if err := s.files.Delete(ctx, oldFileID); err != nil {
			log.Printf("social: deleting replaced avatar %s: %v", oldFileID, err)
		}
	}

	s.cache.Invalidate(cache.Key{Op: cache.OpUserByID, Arg: updated.ID.Hex()})
	s.cache.InvalidateOp(cache.OpUsers, cache.OpCurrentUser)
	return &updated, nil
}
