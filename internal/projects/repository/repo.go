package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pedl/portfolio-backend/internal/database"
	"github.com/pedl/portfolio-backend/internal/projects/domain"
)

// Collection is the Firestore collection projects live in.
const Collection = "projects"

// ProjectRepository persists projects in the document store and converts
// between stored documents and domain projects.
type ProjectRepository struct {
	store database.Store
}

func NewProjectRepository(store database.Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// All returns every project.
func (r *ProjectRepository) All(ctx context.Context) ([]domain.Project, error) {
	docs, err := r.store.FindAll(ctx, Collection)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docToProject(doc))
	}
	return out, nil
}

// ByID returns one project or domain.ErrNotFound.
func (r *ProjectRepository) ByID(ctx context.Context, id string) (*domain.Project, error) {
	doc, err := r.store.FindByID(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, database.ErrDocNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	p := docToProject(*doc)
	return &p, nil
}

// ByName returns the projects whose name equals name exactly.
func (r *ProjectRepository) ByName(ctx context.Context, name string) ([]domain.Project, error) {
	docs, err := r.store.FindByQuery(ctx, Collection, "name", database.OpEqual, name)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docToProject(doc))
	}
	return out, nil
}

// RanksAbove returns the projects whose rank for app is strictly greater
// than rank.
func (r *ProjectRepository) RanksAbove(ctx context.Context, app string, rank int) ([]domain.Project, error) {
	docs, err := r.store.FindByQuery(ctx, Collection, OrderField(app), database.OpGreaterThan, rank)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(docs))
	for _, doc := range docs {
		out = append(out, docToProject(doc))
	}
	return out, nil
}

// Create stores a new project and returns it with its assigned id.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	doc, err := r.store.Create(ctx, Collection, projectToData(p))
	if err != nil {
		return nil, err
	}

	created := docToProject(*doc)
	return &created, nil
}

// Update applies a partial field merge to one project.
func (r *ProjectRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.store.Update(ctx, Collection, id, fields); err != nil {
		if errors.Is(err, database.ErrDocNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes one project document.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Collection, id); err != nil {
		if errors.Is(err, database.ErrDocNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// AppendMedia atomically appends URLs to the media arrays, skipping URLs
// already present. Concurrent updates each land their own URLs instead of
// overwriting each other's.
func (r *ProjectRepository) AppendMedia(ctx context.Context, id string, images, videos []string) error {
	if len(images) > 0 {
		if err := r.store.ArrayAppend(ctx, Collection, id, MediaImagesField, toInterfaceSlice(images)...); err != nil {
			return mapStoreErr(err)
		}
	}
	if len(videos) > 0 {
		if err := r.store.ArrayAppend(ctx, Collection, id, MediaVideosField, toInterfaceSlice(videos)...); err != nil {
			return mapStoreErr(err)
		}
	}
	return nil
}

// RemoveMediaURL atomically removes one URL from a media array.
func (r *ProjectRepository) RemoveMediaURL(ctx context.Context, id, field, url string) error {
	if err := r.store.ArrayRemove(ctx, Collection, id, field, url); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Batch starts an atomic multi-project update.
func (r *ProjectRepository) Batch() database.Batch {
	return r.store.Batch()
}

// OrderField is the field path of one app's rank.
func OrderField(app string) string {
	return "order." + app
}

// VisibilityField is the field path of one app's visibility flag.
func VisibilityField(app string) string {
	return "visibility." + app
}

// Field paths of the media URL arrays.
const (
	MediaImagesField = "media.images"
	MediaVideosField = "media.videos"
)

func mapStoreErr(err error) error {
	if errors.Is(err, database.ErrDocNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func projectToData(p domain.Project) map[string]interface{} {
	links := make([]interface{}, 0, len(p.Links))
	for _, l := range p.Links {
		links = append(links, map[string]interface{}{"name": l.Name, "url": l.URL})
	}

	return map[string]interface{}{
		"name":        p.Name,
		"customer":    p.Customer,
		"description": p.Description,
		"softwares":   toInterfaceSlice(p.Softwares),
		"thumbnail":   p.Thumbnail,
		"media": map[string]interface{}{
			"images": toInterfaceSlice(p.Media.Images),
			"videos": toInterfaceSlice(p.Media.Videos),
		},
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"links":      links,
		"order":      intMapToData(p.Order),
		"visibility": boolMapToData(p.Visibility),
		"category":   string(p.Category),
	}
}

func docToProject(doc database.Document) domain.Project {
	data := doc.Data

	p := domain.Project{
		ID:          doc.ID,
		Name:        asString(data["name"]),
		Customer:    asString(data["customer"]),
		Description: asString(data["description"]),
		Softwares:   asStringSlice(data["softwares"]),
		Thumbnail:   asString(data["thumbnail"]),
		StartDate:   asTime(data["start_date"]),
		EndDate:     asTime(data["end_date"]),
		Category:    domain.Category(asString(data["category"])),
		Order:       make(map[string]int),
		Visibility:  make(map[string]bool),
	}

	if media, ok := data["media"].(map[string]interface{}); ok {
		p.Media.Images = asStringSlice(media["images"])
		p.Media.Videos = asStringSlice(media["videos"])
	}
	if p.Media.Images == nil {
		p.Media.Images = []string{}
	}
	if p.Media.Videos == nil {
		p.Media.Videos = []string{}
	}

	if links, ok := data["links"].([]interface{}); ok {
		for _, raw := range links {
			if l, ok := raw.(map[string]interface{}); ok {
				p.Links = append(p.Links, domain.Link{
					Name: asString(l["name"]),
					URL:  asString(l["url"]),
				})
			}
		}
	}

	if order, ok := data["order"].(map[string]interface{}); ok {
		for app, rank := range order {
			if n, ok := asInt(rank); ok {
				p.Order[app] = n
			}
		}
	}

	if visibility, ok := data["visibility"].(map[string]interface{}); ok {
		for app, visible := range visibility {
			if b, ok := visible.(bool); ok {
				p.Visibility[app] = b
			}
		}
	}

	return p
}

func toInterfaceSlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func intMapToData(in map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func boolMapToData(in map[string]bool) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asTime(v interface{}) time.Time {
	t, _ := v.(time.Time)
	return t
}

// asInt accepts the numeric types Firestore hands back for integer fields.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
