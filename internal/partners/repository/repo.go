package repository

import (
	"context"
	"errors"

	"github.com/pedl/portfolio-backend/internal/database"
	"github.com/pedl/portfolio-backend/internal/partners/domain"
)

const Collection = "partners"

// PartnerRepository persists partners in the document store.
type PartnerRepository struct {
	store database.Store
}

func NewPartnerRepository(store database.Store) *PartnerRepository {
	return &PartnerRepository{store: store}
}

func (r *PartnerRepository) All(ctx context.Context) ([]domain.Partner, error) {
	docs, err := r.store.FindAll(ctx, Collection)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Partner, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docToPartner(doc))
	}
	return out, nil
}

func (r *PartnerRepository) ByID(ctx context.Context, id string) (*domain.Partner, error) {
	doc, err := r.store.FindByID(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, database.ErrDocNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	p := docToPartner(*doc)
	return &p, nil
}

func (r *PartnerRepository) ByName(ctx context.Context, name string) ([]domain.Partner, error) {
	docs, err := r.store.FindByQuery(ctx, Collection, "name", database.OpEqual, name)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Partner, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docToPartner(doc))
	}
	return out, nil
}

func (r *PartnerRepository) Create(ctx context.Context, p domain.Partner) (*domain.Partner, error) {
	doc, err := r.store.Create(ctx, Collection, partnerToData(p))
	if err != nil {
		return nil, err
	}

	created := docToPartner(*doc)
	return &created, nil
}

func (r *PartnerRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.store.Update(ctx, Collection, id, fields); err != nil {
		if errors.Is(err, database.ErrDocNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PartnerRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Collection, id); err != nil {
		if errors.Is(err, database.ErrDocNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func partnerToData(p domain.Partner) map[string]interface{} {
	links := make([]interface{}, 0, len(p.Links))
	for _, l := range p.Links {
		links = append(links, map[string]interface{}{"name": l.Name, "url": l.URL})
	}

	return map[string]interface{}{
		"name":  p.Name,
		"image": p.Image,
		"links": links,
	}
}

func docToPartner(doc database.Document) domain.Partner {
	p := domain.Partner{
		ID:    doc.ID,
		Name:  stringField(doc.Data, "name"),
		Image: stringField(doc.Data, "image"),
	}

	if links, ok := doc.Data["links"].([]interface{}); ok {
		for _, raw := range links {
			if l, ok := raw.(map[string]interface{}); ok {
				p.Links = append(p.Links, domain.Link{
					Name: stringField(l, "name"),
					URL:  stringField(l, "url"),
				})
			}
		}
	}
	return p
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}
