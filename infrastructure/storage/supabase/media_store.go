// Package supabase implements media storage on Supabase Storage buckets.
// Uploaded objects get public URLs as their locators; payloads live under
// <record_id>/<media_id>_<filename> so a record's objects can be listed and
// removed together.
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/domain/memory"
	pkgerrors "github.com/Xazratbek/storybridge-net/pkg/errors"

	"github.com/google/uuid"
)

// MediaStore implements ports.MediaStore on a storage bucket.
type MediaStore struct {
	client *supabase.Client
	bucket string
	logger *zap.Logger
}

// NewMediaStore creates the store.
func NewMediaStore(client *supabase.Client, bucket string, logger *zap.Logger) *MediaStore {
	return &MediaStore{client: client, bucket: bucket, logger: logger}
}

// Upload stores the payload and returns a media item whose locator is the
// object's public URL.
func (s *MediaStore) Upload(ctx context.Context, up ports.MediaUpload) (*memory.MediaItem, error) {
	mediaID := uuid.New().String()
	path := objectPath(up.RecordID, mediaID, up.Filename)

	contentType := up.ContentType
	_, err := s.client.Storage.UploadFile(s.bucket, path, up.Body, storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError("storage", err)
	}

	publicURL := s.client.Storage.GetPublicUrl(s.bucket, path).SignedURL

	s.logger.Debug("media object stored",
		zap.String("record_id", up.RecordID),
		zap.String("path", path))

	return &memory.MediaItem{
		ID:          mediaID,
		Kind:        memory.KindFromContentType(up.ContentType),
		Locator:     publicURL,
		Filename:    up.Filename,
		ContentType: up.ContentType,
	}, nil
}

// Open downloads the object behind a URL locator.
func (s *MediaStore) Open(ctx context.Context, item memory.MediaItem) (ports.MediaHandle, error) {
	if item.IsBlobBacked() {
		return nil, pkgerrors.NewValidationError("media item is not stored in this backend")
	}

	path, err := s.pathFromLocator(item.Locator)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Storage.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, pkgerrors.NewExternalError("storage", err)
	}

	return &objectHandle{
		Reader:      bytes.NewReader(data),
		contentType: item.ContentType,
	}, nil
}

// DeleteAllForRecord removes every object under the record's folder.
func (s *MediaStore) DeleteAllForRecord(ctx context.Context, recordID string) error {
	objects, err := s.client.Storage.ListFiles(s.bucket, recordID, storage_go.FileSearchOptions{})
	if err != nil {
		return pkgerrors.NewExternalError("storage", err)
	}
	if len(objects) == 0 {
		return nil
	}

	paths := make([]string, 0, len(objects))
	for _, obj := range objects {
		paths = append(paths, recordID+"/"+obj.Name)
	}

	if _, err := s.client.Storage.RemoveFile(s.bucket, paths); err != nil {
		return pkgerrors.NewExternalError("storage", err)
	}

	s.logger.Debug("media objects removed",
		zap.String("record_id", recordID),
		zap.Int("count", len(paths)))
	return nil
}

func objectPath(recordID, mediaID, filename string) string {
	name := strings.ReplaceAll(filename, "/", "_")
	if name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s_%s", recordID, mediaID, name)
}

// pathFromLocator recovers the object path from a public URL. Public URLs
// have the shape <base>/storage/v1/object/public/<bucket>/<path>.
func (s *MediaStore) pathFromLocator(locator string) (string, error) {
	marker := "/object/public/" + s.bucket + "/"
	idx := strings.Index(locator, marker)
	if idx < 0 {
		return "", pkgerrors.NewValidationError("locator does not point into the media bucket")
	}
	return locator[idx+len(marker):], nil
}

type objectHandle struct {
	*bytes.Reader
	contentType string
}

func (h *objectHandle) Close() error        { return nil }
func (h *objectHandle) ContentType() string { return h.contentType }
