// Package storage defines the blob-store capability for project media.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrObjectNotFound is returned when a referenced object does not exist
	// in the bucket. Callers deleting media treat it as benign.
	ErrObjectNotFound = errors.New("storage object not found")
	// ErrInvalidFileURL is returned when a file URL does not point into the
	// configured bucket.
	ErrInvalidFileURL = errors.New("invalid file url")
)

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// BlobStore stores media files and serves them by public URL.
type BlobStore interface {
	// UploadFiles stores each file under dir and returns one public URL per
	// file, in input order.
	UploadFiles(ctx context.Context, dir string, files []File) ([]string, error)
	// DeleteFile removes the object a public URL points at. Returns
	// ErrObjectNotFound if it is already gone, ErrInvalidFileURL if the URL
	// does not reference this store.
	DeleteFile(ctx context.Context, fileURL string) error
	// DeleteFolder removes every object under rootFolder/objectFolder/.
	DeleteFolder(ctx context.Context, rootFolder, objectFolder string) error
}
