package http

import (
	"time"

	"github.com/pedl/portfolio-backend/internal/projects/service"
)

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type linkDTO struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

type createProjectReq struct {
	Name        string    `json:"name" binding:"required"`
	Customer    string    `json:"customer" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Softwares   []string  `json:"softwares"`
	Thumbnail   string    `json:"thumbnail" binding:"required"`
	ImagesURLs  []string  `json:"images_urls"`
	VideosURLs  []string  `json:"videos_urls"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Links       []linkDTO `json:"links"`
	Category    string    `json:"category" binding:"required"`
}

type updateProjectReq struct {
	Name        *string    `json:"name"`
	Customer    *string    `json:"customer"`
	Description *string    `json:"description"`
	Softwares   []string   `json:"softwares"`
	Thumbnail   *string    `json:"thumbnail"`
	ImagesURLs  []string   `json:"images_urls"`
	VideosURLs  []string   `json:"videos_urls"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Links       []linkDTO  `json:"links"`
	Category    *string    `json:"category"`
}

type updateOrderReq struct {
	NewOrder int    `json:"new_order" binding:"required"`
	App      string `json:"app" binding:"required"`
}

type deleteFileReq struct {
	FileURL  string `json:"file_url" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
}
