package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/pedl/portfolio-backend/internal/projects/domain"
	"github.com/pedl/portfolio-backend/internal/projects/service"
	"github.com/pedl/portfolio-backend/internal/storage"
)

func (h *Handler) getAll(c *gin.Context) {
	projects, err := h.svc.GetAllProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) get(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectReq
	imageFiles, videoFiles, err := bindProjectBody(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	category := domain.Category(req.Category)
	if !domain.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), service.CreateProjectInput{
		Name:        strings.TrimSpace(req.Name),
		Customer:    req.Customer,
		Description: req.Description,
		Softwares:   req.Softwares,
		Thumbnail:   req.Thumbnail,
		ImagesURLs:  req.ImagesURLs,
		VideosURLs:  req.VideosURLs,
		ImageFiles:  imageFiles,
		VideoFiles:  videoFiles,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Links:       toLinks(req.Links),
		Category:    category,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project successfully created!",
		"status":  http.StatusCreated,
		"data":    project,
	})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")

	var req updateProjectReq
	imageFiles, videoFiles, err := bindProjectBody(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	in := service.UpdateProjectInput{
		Name:        req.Name,
		Customer:    req.Customer,
		Description: req.Description,
		Softwares:   req.Softwares,
		Thumbnail:   req.Thumbnail,
		ImagesURLs:  req.ImagesURLs,
		VideosURLs:  req.VideosURLs,
		ImageFiles:  imageFiles,
		VideoFiles:  videoFiles,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Links:       toLinks(req.Links),
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		if !domain.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		in.Category = &category
	}

	project, err := h.svc.UpdateProject(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project with id \"" + id + "\" successfully updated!",
		"status":  http.StatusOK,
		"data":    project,
	})
}

func (h *Handler) updateOrder(c *gin.Context) {
	id := c.Param("id")

	var req updateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	if err := h.svc.UpdateProjectOrder(c.Request.Context(), id, req.App, req.NewOrder); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project order updated successfully!",
		"status":  http.StatusOK,
	})
}

func (h *Handler) updateVisibility(c *gin.Context) {
	id := c.Param("id")
	app := c.Param("app")

	visible, err := h.svc.UpdateProjectVisibility(c.Request.Context(), id, app)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project visibility updated successfully!",
		"status":  http.StatusOK,
		"data":    gin.H{"app": app, "visible": visible},
	})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project with id \"" + id + "\" successfully deleted!",
		"status":  http.StatusOK,
	})
}

func (h *Handler) deleteFile(c *gin.Context) {
	id := c.Param("id")

	var req deleteFileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	project, err := h.svc.DeleteFileFromProject(c.Request.Context(), id, req.FileURL, req.FileType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File removed from project!",
		"status":  http.StatusOK,
		"data":    project,
	})
}

// bindProjectBody accepts either a JSON body or a multipart form whose
// "data" field holds the JSON and whose "images_files"/"videos_files" parts
// hold media uploads.
func bindProjectBody(c *gin.Context, out interface{}) ([]storage.File, []storage.File, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(out); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}

	data := ""
	if values := form.Value["data"]; len(values) > 0 {
		data = values[0]
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return nil, nil, err
	}
	if err := validateStruct(out); err != nil {
		return nil, nil, err
	}

	imageFiles, err := readFiles(form.File["images_files"])
	if err != nil {
		return nil, nil, err
	}
	videoFiles, err := readFiles(form.File["videos_files"])
	if err != nil {
		return nil, nil, err
	}
	return imageFiles, videoFiles, nil
}

// validateStruct runs the binding validators that ShouldBindJSON would have
// applied, since multipart bodies bypass it.
func validateStruct(out interface{}) error {
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(out)
}

func readFiles(headers []*multipart.FileHeader) ([]storage.File, error) {
	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		files = append(files, storage.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func toLinks(dtos []linkDTO) []domain.Link {
	if dtos == nil {
		return nil
	}
	links := make([]domain.Link, 0, len(dtos))
	for _, l := range dtos {
		links = append(links, domain.Link{Name: l.Name, URL: l.URL})
	}
	return links
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNameTaken), errors.Is(err, domain.ErrSameRank):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrRankOutOfRange), errors.Is(err, domain.ErrUnknownApp), errors.Is(err, domain.ErrUnknownMedia):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error(), "status": status})
}
