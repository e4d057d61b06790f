// Package storage wraps the Cloudinary SDK: the hosted file store for
// post images and avatars. The service never touches bytes on disk;
// uploads stream straight through and every stored file is addressed
// by its Cloudinary public ID.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// previewTransformation is the fixed derivation applied to every served
// post image: 2000x2000 fill crop anchored at the top, full quality.
// Not configurable per call.
const previewTransformation = "c_fill,g_north,w_2000,h_2000,q_100"

type FileStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New builds a FileStore from a cloudinary:// credential URL.
func New(cloudinaryURL, folder string) (*FileStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &FileStore{cld: cld, folder: folder}, nil
}

// Upload stores one image and returns its generated file ID.
func (s *FileStore) Upload(ctx context.Context, file io.Reader) (string, error) {
	publicID := uuid.NewString()
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", err
	}
	return res.PublicID, nil
}

// PreviewURL derives the served URL for an uploaded file.
func (s *FileStore) PreviewURL(fileID string) (string, error) {
	if fileID == "" {
		return "", errors.New("storage: empty file id")
	}
	img, err := s.cld.Image(fileID)
	if err != nil {
		return "", err
	}
	img.Transformation = previewTransformation
	return img.String()
}

// Delete removes an uploaded file. Deleting a file that is already gone
// is not an error; compensations may race an earlier cleanup.
func (s *FileStore) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return nil
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: fileID})
	if err != nil {
		return err
	}
	if res.Result != "ok" && res.Result != "not found" {
		return errors.New("storage: destroy " + fileID + ": " + res.Result)
	}
	return nil
}
