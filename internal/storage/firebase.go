package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// FirebaseStorage implements BlobStore on the Firebase default bucket.
// Uploaded objects are made public and addressed by their
// storage.googleapis.com URL.
type FirebaseStorage struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseStorage(bucket *gcs.BucketHandle, bucketName string) *FirebaseStorage {
	return &FirebaseStorage{bucket: bucket, bucketName: bucketName}
}

func (s *FirebaseStorage) UploadFiles(ctx context.Context, dir string, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))

	for _, file := range files {
		// Prefix with a fresh id so two uploads sharing a filename never
		// overwrite each other.
		objectName := fmt.Sprintf("%s/%s_%s", strings.Trim(dir, "/"), uuid.New().String(), file.Name)

		obj := s.bucket.Object(objectName)
		w := obj.NewWriter(ctx)
		w.ContentType = file.ContentType
		w.ContentDisposition = "inline"

		if _, err := w.Write(file.Data); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to write object %s: %w", objectName, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to finish upload of %s: %w", objectName, err)
		}

		if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
			return nil, fmt.Errorf("failed to make %s public: %w", objectName, err)
		}

		urls = append(urls, s.publicURL(objectName))
	}

	return urls, nil
}

func (s *FirebaseStorage) DeleteFile(ctx context.Context, fileURL string) error {
	objectName, err := s.objectNameFromURL(fileURL)
	if err != nil {
		return err
	}

	if err := s.bucket.Object(objectName).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object %s: %w", objectName, err)
	}
	return nil
}

func (s *FirebaseStorage) DeleteFolder(ctx context.Context, rootFolder, objectFolder string) error {
	prefix := fmt.Sprintf("%s/%s/", rootFolder, objectFolder)
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}

		if err := s.bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("failed to delete object %s: %w", attrs.Name, err)
		}
	}
	return nil
}

func (s *FirebaseStorage) publicURL(objectName string) string {
	segments := strings.Split(objectName, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, strings.Join(segments, "/"))
}

func (s *FirebaseStorage) objectNameFromURL(fileURL string) (string, error) {
	decoded, err := url.QueryUnescape(fileURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileURL, fileURL)
	}

	parsed, err := url.Parse(decoded)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileURL, fileURL)
	}

	objectName := strings.TrimPrefix(parsed.Path, "/"+s.bucketName+"/")
	if objectName == parsed.Path || objectName == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileURL, fileURL)
	}
	return objectName, nil
}
