package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedl/portfolio-backend/internal/database"
	"github.com/pedl/portfolio-backend/internal/locks"
	"github.com/pedl/portfolio-backend/internal/projects/domain"
	"github.com/pedl/portfolio-backend/internal/projects/ordering"
	"github.com/pedl/portfolio-backend/internal/projects/repository"
	"github.com/pedl/portfolio-backend/internal/storage"
)

var testApps = []string{"pedl", "cofcof"}

// fakeBlobStore records calls and serves URLs derived from file names.
type fakeBlobStore struct {
	uploaded       []string
	deletedFiles   []string
	deletedFolders []string
	deleteFileErr  error
}

func (f *fakeBlobStore) UploadFiles(_ context.Context, dir string, files []storage.File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		url := fmt.Sprintf("https://cdn.test/%s/%s", dir, file.Name)
		f.uploaded = append(f.uploaded, url)
		urls = append(urls, url)
	}
	return urls, nil
}

func (f *fakeBlobStore) DeleteFile(_ context.Context, fileURL string) error {
	if f.deleteFileErr != nil {
		return f.deleteFileErr
	}
	f.deletedFiles = append(f.deletedFiles, fileURL)
	return nil
}

func (f *fakeBlobStore) DeleteFolder(_ context.Context, rootFolder, objectFolder string) error {
	f.deletedFolders = append(f.deletedFolders, rootFolder+"/"+objectFolder)
	return nil
}

func newTestProjectService(t *testing.T) (*ProjectService, *fakeBlobStore, *ordering.Service) {
	t.Helper()
	repo := repository.NewProjectRepository(database.NewMemoryStore())
	order := ordering.NewService(repo, locks.NewLocalLocker(), testApps)
	blobs := &fakeBlobStore{}
	return NewProjectService(repo, order, blobs), blobs, order
}

func createInput(name string) CreateProjectInput {
	return CreateProjectInput{
		Name:        name,
		Customer:    "ACME",
		Description: "a project",
		Softwares:   []string{"blender"},
		Thumbnail:   "thumb.png",
		Category:    domain.CategoryGame,
	}
}

func TestCreateProject(t *testing.T) {
	svc, _, order := newTestProjectService(t)
	ctx := context.Background()

	p1, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)
	p2, err := svc.CreateProject(ctx, createInput("P2"))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"pedl": 1, "cofcof": 1}, p1.Order)
	assert.Equal(t, map[string]int{"pedl": 2, "cofcof": 2}, p2.Order)
	assert.Equal(t, map[string]bool{"pedl": false, "cofcof": false}, p1.Visibility)

	violations, err := order.CheckDensity(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestCreateProject_DuplicateName(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, createInput("P1"))
	require.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestCreateProject_UploadsMedia(t *testing.T) {
	svc, blobs, _ := newTestProjectService(t)
	ctx := context.Background()

	in := createInput("P1")
	in.ImagesURLs = []string{"https://example.com/a.png"}
	in.ImageFiles = []storage.File{{Name: "b.png", ContentType: "image/png", Data: []byte("x")}}
	in.VideoFiles = []storage.File{{Name: "c.mp4", ContentType: "video/mp4", Data: []byte("y")}}

	created, err := svc.CreateProject(ctx, in)
	require.NoError(t, err)
	require.Len(t, blobs.uploaded, 2)

	assert.Equal(t, []string{
		"https://example.com/a.png",
		"https://cdn.test/projects/" + created.ID + "/media/images/b.png",
	}, created.Media.Images)
	assert.Equal(t, []string{
		"https://cdn.test/projects/" + created.ID + "/media/videos/c.mp4",
	}, created.Media.Videos)

	// The appended media survives a re-read.
	stored, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Media, stored.Media)
}

func TestUpdateProject_PartialMerge(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)

	customer := "New Customer"
	updated, err := svc.UpdateProject(ctx, created.ID, UpdateProjectInput{Customer: &customer})
	require.NoError(t, err)

	assert.Equal(t, "New Customer", updated.Customer)
	assert.Equal(t, "P1", updated.Name)
	assert.Equal(t, created.Order, updated.Order)
}

func TestUpdateProject_RenameChecksUniqueness(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	p1, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, createInput("P2"))
	require.NoError(t, err)

	taken := "P2"
	_, err = svc.UpdateProject(ctx, p1.ID, UpdateProjectInput{Name: &taken})
	require.ErrorIs(t, err, domain.ErrNameTaken)

	// Re-submitting the current name is not a rename and must not conflict.
	same := "P1"
	_, err = svc.UpdateProject(ctx, p1.ID, UpdateProjectInput{Name: &same})
	require.NoError(t, err)
}

func TestUpdateProject_MediaAppendIsIdempotent(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	in := createInput("P1")
	in.ImagesURLs = []string{"https://example.com/a.png"}
	created, err := svc.CreateProject(ctx, in)
	require.NoError(t, err)

	// A retried update re-sending an already-appended URL must not
	// duplicate it.
	updated, err := svc.UpdateProject(ctx, created.ID, UpdateProjectInput{
		ImagesURLs: []string{"https://example.com/a.png", "https://example.com/b.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/a.png", "https://example.com/b.png"}, updated.Media.Images)
}

func TestUpdateProject_ConcurrentMediaAppends(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)

	// Two updates racing to attach different media must each land their
	// URLs; neither may overwrite the other's append.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, url := range []string{"https://example.com/a.png", "https://example.com/b.png"} {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			_, errs[i] = svc.UpdateProject(ctx, created.ID, UpdateProjectInput{ImagesURLs: []string{url}})
		}(i, url)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"https://example.com/a.png", "https://example.com/b.png"}, stored.Media.Images)
}

func TestCreateProject_ConcurrentSameName(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateProject(ctx, createInput("P1"))
		}(i)
	}
	wg.Wait()

	// Exactly one create wins; the loser hits the uniqueness check inside
	// the locked section.
	taken := 0
	for _, err := range errs {
		if errors.Is(err, domain.ErrNameTaken) {
			taken++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, taken)

	all, err := svc.GetAllProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateProjectVisibility_Toggles(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)

	visible, err := svc.UpdateProjectVisibility(ctx, created.ID, "pedl")
	require.NoError(t, err)
	assert.True(t, visible)

	visible, err = svc.UpdateProjectVisibility(ctx, created.ID, "pedl")
	require.NoError(t, err)
	assert.False(t, visible)

	// Only the toggled app changes.
	stored, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Visibility["cofcof"])

	_, err = svc.UpdateProjectVisibility(ctx, created.ID, "myspace")
	require.ErrorIs(t, err, domain.ErrUnknownApp)
}

func TestDeleteProject(t *testing.T) {
	svc, blobs, order := newTestProjectService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, createInput("P1"))
	require.NoError(t, err)
	p2, err := svc.CreateProject(ctx, createInput("P2"))
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, createInput("P3"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, p2.ID))

	_, err = svc.GetProject(ctx, p2.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	violations, err := order.CheckDensity(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)

	assert.Equal(t, []string{"projects/" + p2.ID}, blobs.deletedFolders)
}

func TestDeleteProject_NotFound(t *testing.T) {
	svc, _, _ := newTestProjectService(t)

	err := svc.DeleteProject(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFileFromProject(t *testing.T) {
	ctx := context.Background()

	t.Run("removes url and deletes object", func(t *testing.T) {
		svc, blobs, _ := newTestProjectService(t)

		in := createInput("P1")
		in.ImagesURLs = []string{"https://example.com/a.png", "https://example.com/b.png"}
		created, err := svc.CreateProject(ctx, in)
		require.NoError(t, err)

		updated, err := svc.DeleteFileFromProject(ctx, created.ID, "https://example.com/a.png", "image")
		require.NoError(t, err)

		assert.Equal(t, []string{"https://example.com/b.png"}, updated.Media.Images)
		assert.Equal(t, []string{"https://example.com/a.png"}, blobs.deletedFiles)
	})

	t.Run("object already gone is benign", func(t *testing.T) {
		svc, blobs, _ := newTestProjectService(t)
		blobs.deleteFileErr = storage.ErrObjectNotFound

		in := createInput("P1")
		in.ImagesURLs = []string{"https://example.com/a.png"}
		created, err := svc.CreateProject(ctx, in)
		require.NoError(t, err)

		updated, err := svc.DeleteFileFromProject(ctx, created.ID, "https://example.com/a.png", "image")
		require.NoError(t, err)
		assert.Empty(t, updated.Media.Images)
	})

	t.Run("other storage failures propagate", func(t *testing.T) {
		svc, blobs, _ := newTestProjectService(t)
		blobs.deleteFileErr = fmt.Errorf("bucket unreachable")

		in := createInput("P1")
		in.ImagesURLs = []string{"https://example.com/a.png"}
		created, err := svc.CreateProject(ctx, in)
		require.NoError(t, err)

		_, err = svc.DeleteFileFromProject(ctx, created.ID, "https://example.com/a.png", "image")
		require.Error(t, err)
	})

	t.Run("unknown media type rejected", func(t *testing.T) {
		svc, _, _ := newTestProjectService(t)

		created, err := svc.CreateProject(ctx, createInput("P1"))
		require.NoError(t, err)

		_, err = svc.DeleteFileFromProject(ctx, created.ID, "https://example.com/a.png", "gif")
		require.ErrorIs(t, err, domain.ErrUnknownMedia)
	})
}
