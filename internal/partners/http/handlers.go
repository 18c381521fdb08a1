package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pedl/portfolio-backend/internal/partners/domain"
	"github.com/pedl/portfolio-backend/internal/partners/service"
)

// Handler bundles the dependencies for partner HTTP endpoints.
type Handler struct {
	svc *service.PartnerService
}

func New(svc *service.PartnerService) *Handler {
	return &Handler{svc: svc}
}

type linkDTO struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

type createPartnerReq struct {
	Name  string    `json:"name" binding:"required"`
	Image string    `json:"image" binding:"required"`
	Links []linkDTO `json:"links"`
}

type updatePartnerReq struct {
	Name  *string   `json:"name"`
	Image *string   `json:"image"`
	Links []linkDTO `json:"links"`
}

func (h *Handler) getAll(c *gin.Context) {
	partners, err := h.svc.GetAllPartners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partners)
}

func (h *Handler) get(c *gin.Context) {
	partner, err := h.svc.GetPartner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}

func (h *Handler) create(c *gin.Context) {
	var req createPartnerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	partner, err := h.svc.CreatePartner(c.Request.Context(), service.CreatePartnerInput{
		Name:  strings.TrimSpace(req.Name),
		Image: req.Image,
		Links: toLinks(req.Links),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Partner successfully created!",
		"status":  http.StatusCreated,
		"data":    partner,
	})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")

	var req updatePartnerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	partner, err := h.svc.UpdatePartner(c.Request.Context(), id, service.UpdatePartnerInput{
		Name:  req.Name,
		Image: req.Image,
		Links: toLinks(req.Links),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Partner with id \"" + id + "\" successfully updated!",
		"status":  http.StatusOK,
		"data":    partner,
	})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.svc.DeletePartner(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Partner with id \"" + id + "\" successfully deleted!",
		"status":  http.StatusOK,
	})
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

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNameTaken):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error(), "status": status})
}
