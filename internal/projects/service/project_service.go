package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pedl/portfolio-backend/internal/projects/domain"
	"github.com/pedl/portfolio-backend/internal/projects/ordering"
	"github.com/pedl/portfolio-backend/internal/projects/repository"
	"github.com/pedl/portfolio-backend/internal/storage"
)

const storageRoot = "projects"

// ProjectService orchestrates project CRUD, delegating rank bookkeeping to
// the ordering service and media files to the blob store.
type ProjectService struct {
	repo  *repository.ProjectRepository
	order *ordering.Service
	blobs storage.BlobStore
}

func NewProjectService(repo *repository.ProjectRepository, order *ordering.Service, blobs storage.BlobStore) *ProjectService {
	return &ProjectService{repo: repo, order: order, blobs: blobs}
}

// CreateProjectInput carries a new project's fields plus any media to attach,
// either as direct URLs or as files to upload.
type CreateProjectInput struct {
	Name        string
	Customer    string
	Description string
	Softwares   []string
	Thumbnail   string
	ImagesURLs  []string
	VideosURLs  []string
	ImageFiles  []storage.File
	VideoFiles  []storage.File
	StartDate   time.Time
	EndDate     time.Time
	Links       []domain.Link
	Category    domain.Category
}

// UpdateProjectInput is a partial update; nil pointers mean "leave as is".
// Media URLs and files always append, never overwrite.
type UpdateProjectInput struct {
	Name        *string
	Customer    *string
	Description *string
	Softwares   []string
	Thumbnail   *string
	ImagesURLs  []string
	VideosURLs  []string
	ImageFiles  []storage.File
	VideoFiles  []storage.File
	StartDate   *time.Time
	EndDate     *time.Time
	Links       []domain.Link
	Category    *domain.Category
}

func (s *ProjectService) GetAllProjects(ctx context.Context) ([]domain.Project, error) {
	return s.repo.All(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.ByID(ctx, id)
}

// CreateProject persists a new project with freshly allocated ranks and
// all-hidden visibility, then uploads any attached media.
func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	// Hold every sequence lock from the uniqueness check to the commit so
	// two concurrent creates can collide neither on name nor on the
	// allocated ranks.
	unlock, err := s.order.LockAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, in.Name); err != nil {
		unlock()
		return nil, err
	}

	all, err := s.repo.All(ctx)
	if err != nil {
		unlock()
		return nil, err
	}

	project := domain.Project{
		Name:        in.Name,
		Customer:    in.Customer,
		Description: in.Description,
		Softwares:   in.Softwares,
		Thumbnail:   in.Thumbnail,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Links:       in.Links,
		Category:    in.Category,
		Order:       s.order.AssignInitialOrder(all),
		Visibility:  s.order.InitialVisibility(),
	}
	project.Media.Append(in.ImagesURLs, in.VideosURLs)

	created, err := s.repo.Create(ctx, project)
	unlock()
	if err != nil {
		return nil, err
	}

	if len(in.ImageFiles) > 0 || len(in.VideoFiles) > 0 {
		if err := s.attachFiles(ctx, created, in.ImageFiles, in.VideoFiles); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// UpdateProject merges the provided fields only. Name uniqueness is
// re-checked only when the name actually changes.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, in UpdateProjectInput) (*domain.Project, error) {
	current, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != current.Name {
		if err := s.ensureNameFree(ctx, *in.Name); err != nil {
			return nil, err
		}
	}

	fields := make(map[string]interface{})
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Customer != nil {
		fields["customer"] = *in.Customer
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Softwares != nil {
		fields["softwares"] = in.Softwares
	}
	if in.Thumbnail != nil {
		fields["thumbnail"] = *in.Thumbnail
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		fields["end_date"] = *in.EndDate
	}
	if in.Links != nil {
		links := make([]interface{}, 0, len(in.Links))
		for _, l := range in.Links {
			links = append(links, map[string]interface{}{"name": l.Name, "url": l.URL})
		}
		fields["links"] = links
	}
	if in.Category != nil {
		fields["category"] = string(*in.Category)
	}

	uploadedImages, uploadedVideos, err := s.uploadMedia(ctx, id, in.ImageFiles, in.VideoFiles)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	// Media always appends through the store's atomic array append, so
	// concurrent updates each land their URLs instead of overwriting the
	// other's snapshot.
	images := append(in.ImagesURLs, uploadedImages...)
	videos := append(in.VideosURLs, uploadedVideos...)
	if len(images) > 0 || len(videos) > 0 {
		if err := s.repo.AppendMedia(ctx, id, images, videos); err != nil {
			return nil, err
		}
	}

	return s.repo.ByID(ctx, id)
}

// UpdateProjectOrder moves the project to newRank in one app sequence.
func (s *ProjectService) UpdateProjectOrder(ctx context.Context, id, app string, newRank int) error {
	return s.order.UpdateOrder(ctx, id, app, newRank)
}

// UpdateProjectVisibility toggles the project's visibility for one app.
func (s *ProjectService) UpdateProjectVisibility(ctx context.Context, id, app string) (bool, error) {
	if !s.order.KnownApp(app) {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownApp, app)
	}

	project, err := s.repo.ByID(ctx, id)
	if err != nil {
		return false, err
	}

	next := !project.Visibility[app]
	fields := map[string]interface{}{repository.VisibilityField(app): next}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return false, err
	}
	return next, nil
}

// DeleteProject removes the project, compacts every rank sequence and
// cleans up its media folder. A media folder that is already gone is not an
// error.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	unlock, err := s.order.LockAll(ctx)
	if err != nil {
		return err
	}

	project, err := s.repo.ByID(ctx, id)
	if err != nil {
		unlock()
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		unlock()
		return err
	}

	err = s.order.CompactAfterDelete(ctx, project.Order)
	unlock()
	if err != nil {
		return err
	}

	if err := s.blobs.DeleteFolder(ctx, storageRoot, id); err != nil {
		return fmt.Errorf("project %s deleted but media cleanup failed: %w", id, err)
	}
	return nil
}

// DeleteFileFromProject removes one media URL from the project and deletes
// the backing object. An object that is already absent (or a URL that never
// referenced the store) still removes the URL from the project.
func (s *ProjectService) DeleteFileFromProject(ctx context.Context, id, fileURL, fileType string) (*domain.Project, error) {
	if fileType != "image" && fileType != "video" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMedia, fileType)
	}

	if _, err := s.repo.ByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.blobs.DeleteFile(ctx, fileURL); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidFileURL) {
			log.Printf("File %s not found in storage, removing URL from project %s", fileURL, id)
		} else {
			return nil, err
		}
	}

	field := repository.MediaImagesField
	if fileType == "video" {
		field = repository.MediaVideosField
	}
	if err := s.repo.RemoveMediaURL(ctx, id, field, fileURL); err != nil {
		return nil, err
	}

	return s.repo.ByID(ctx, id)
}

func (s *ProjectService) ensureNameFree(ctx context.Context, name string) error {
	existing, err := s.repo.ByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: %q", domain.ErrNameTaken, name)
	}
	return nil
}

// attachFiles uploads a new project's media files and appends the resulting
// URLs to the stored media lists.
func (s *ProjectService) attachFiles(ctx context.Context, project *domain.Project, imageFiles, videoFiles []storage.File) error {
	uploadedImages, uploadedVideos, err := s.uploadMedia(ctx, project.ID, imageFiles, videoFiles)
	if err != nil {
		return err
	}

	project.Media.Append(uploadedImages, uploadedVideos)
	return s.repo.AppendMedia(ctx, project.ID, uploadedImages, uploadedVideos)
}

func (s *ProjectService) uploadMedia(ctx context.Context, projectID string, imageFiles, videoFiles []storage.File) ([]string, []string, error) {
	var images, videos []string

	if len(imageFiles) > 0 {
		urls, err := s.blobs.UploadFiles(ctx, fmt.Sprintf("%s/%s/media/images", storageRoot, projectID), imageFiles)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upload images: %w", err)
		}
		images = urls
	}

	if len(videoFiles) > 0 {
		urls, err := s.blobs.UploadFiles(ctx, fmt.Sprintf("%s/%s/media/videos", storageRoot, projectID), videoFiles)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upload videos: %w", err)
		}
		videos = urls
	}

	return images, videos, nil
}
