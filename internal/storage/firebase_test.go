package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURLEscapesSegments(t *testing.T) {
	s := NewFirebaseStorage(nil, "my-bucket")

	url := s.publicURL("projects/p1/media/images/abc_my file.png")
	assert.Equal(t, "https://storage.googleapis.com/my-bucket/projects/p1/media/images/abc_my%20file.png", url)
}

func TestObjectNameFromURL(t *testing.T) {
	s := NewFirebaseStorage(nil, "my-bucket")

	t.Run("round trips an uploaded url", func(t *testing.T) {
		url := s.publicURL("projects/p1/media/images/abc_my file.png")

		name, err := s.objectNameFromURL(url)
		require.NoError(t, err)
		assert.Equal(t, "projects/p1/media/images/abc_my file.png", name)
	})

	t.Run("plain url", func(t *testing.T) {
		name, err := s.objectNameFromURL("https://storage.googleapis.com/my-bucket/projects/p1/media/videos/clip.mp4")
		require.NoError(t, err)
		assert.Equal(t, "projects/p1/media/videos/clip.mp4", name)
	})

	t.Run("foreign bucket rejected", func(t *testing.T) {
		_, err := s.objectNameFromURL("https://storage.googleapis.com/other-bucket/projects/p1/a.png")
		require.ErrorIs(t, err, ErrInvalidFileURL)
	})

	t.Run("empty object path rejected", func(t *testing.T) {
		_, err := s.objectNameFromURL("https://storage.googleapis.com/my-bucket/")
		require.ErrorIs(t, err, ErrInvalidFileURL)
	})
}
