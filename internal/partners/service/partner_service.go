package service

import (
	"context"
	"fmt"

	"github.com/pedl/portfolio-backend/internal/partners/domain"
	"github.com/pedl/portfolio-backend/internal/partners/repository"
)

// PartnerService handles partner CRUD. No ordering: partners have no rank
// sequences.
type PartnerService struct {
	repo *repository.PartnerRepository
}

func NewPartnerService(repo *repository.PartnerRepository) *PartnerService {
	return &PartnerService{repo: repo}
}

type CreatePartnerInput struct {
	Name  string
	Image string
	Links []domain.Link
}

type UpdatePartnerInput struct {
	Name  *string
	Image *string
	Links []domain.Link
}

func (s *PartnerService) GetAllPartners(ctx context.Context) ([]domain.Partner, error) {
	return s.repo.All(ctx)
}

func (s *PartnerService) GetPartner(ctx context.Context, id string) (*domain.Partner, error) {
	return s.repo.ByID(ctx, id)
}

func (s *PartnerService) CreatePartner(ctx context.Context, in CreatePartnerInput) (*domain.Partner, error) {
	if err := s.ensureNameFree(ctx, in.Name); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.Partner{
		Name:  in.Name,
		Image: in.Image,
		Links: in.Links,
	})
}

func (s *PartnerService) UpdatePartner(ctx context.Context, id string, in UpdatePartnerInput) (*domain.Partner, error) {
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
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.Links != nil {
		links := make([]interface{}, 0, len(in.Links))
		for _, l := range in.Links {
			links = append(links, map[string]interface{}{"name": l.Name, "url": l.URL})
		}
		fields["links"] = links
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.ByID(ctx, id)
}

func (s *PartnerService) DeletePartner(ctx context.Context, id string) error {
	if _, err := s.repo.ByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *PartnerService) ensureNameFree(ctx context.Context, name string) error {
	existing, err := s.repo.ByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check partner name: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: %q", domain.ErrNameTaken, name)
	}
	return nil
}
