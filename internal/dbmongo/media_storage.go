package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"campusbingo/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// ImageFile describes a stored listing photo.
type ImageFile struct {
	ID          string    `json:"id"` // GridFS ObjectID, referenced by listing_images.file_id
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ImageSource opens stored listing photos by file id.
type ImageSource interface {
	OpenImage(ctx context.Context, fileID string) (io.ReadCloser, *ImageFile, error)
}

type MediaStorage struct {
	gridFS *gridfs.Bucket
}

func NewMediaStorage(mongoClient *MongoClient) *MediaStorage {
	return &MediaStorage{
		gridFS: mongoClient.GridFS,
	}
}

// OpenImage streams a photo. Malformed and unknown ids are both common.ErrNotFound.
func (ms *MediaStorage) OpenImage(ctx context.Context, fileID string) (io.ReadCloser, *ImageFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file ID %q: %w", fileID, common.ErrNotFound)
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		if err := bson.Unmarshal(fileInfo.Metadata, &metadata); err != nil {
			metadata = nil
		}
	}

	return stream, &ImageFile{
		ID:          fileID,
		Filename:    fileInfo.Name,
		ContentType: contentType(fileInfo.Name, getStringFromMap(metadata, "mime_type")),
		Size:        fileInfo.Length,
		UploadedAt:  fileInfo.UploadDate,
	}, nil
}

// contentType prefers the uploader-supplied MIME type and falls back to the file extension.
func contentType(filename, stored string) string {
	if stored != "" {
		return stored
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
