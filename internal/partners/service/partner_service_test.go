package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedl/portfolio-backend/internal/database"
	"github.com/pedl/portfolio-backend/internal/partners/domain"
	"github.com/pedl/portfolio-backend/internal/partners/repository"
)

func newTestPartnerService() *PartnerService {
	return NewPartnerService(repository.NewPartnerRepository(database.NewMemoryStore()))
}

func TestPartnerCRUD(t *testing.T) {
	svc := newTestPartnerService()
	ctx := context.Background()

	created, err := svc.CreatePartner(ctx, CreatePartnerInput{
		Name:  "Partner 1",
		Image: "image.png",
		Links: []domain.Link{{Name: "site", URL: "https://example.com"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	all, err := svc.GetAllPartners(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got, err := svc.GetPartner(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Partner 1", got.Name)
	require.Len(t, got.Links, 1)
	assert.Equal(t, "https://example.com", got.Links[0].URL)

	newName := "Partner One"
	updated, err := svc.UpdatePartner(ctx, created.ID, UpdatePartnerInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Partner One", updated.Name)
	assert.Equal(t, "image.png", updated.Image)

	require.NoError(t, svc.DeletePartner(ctx, created.ID))
	_, err = svc.GetPartner(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePartner_DuplicateName(t *testing.T) {
	svc := newTestPartnerService()
	ctx := context.Background()

	_, err := svc.CreatePartner(ctx, CreatePartnerInput{Name: "Partner 1", Image: "a.png"})
	require.NoError(t, err)

	_, err = svc.CreatePartner(ctx, CreatePartnerInput{Name: "Partner 1", Image: "b.png"})
	require.ErrorIs(t, err, domain.ErrNameTaken)
}

func TestUpdatePartner_NotFound(t *testing.T) {
	svc := newTestPartnerService()

	name := "x"
	_, err := svc.UpdatePartner(context.Background(), "missing", UpdatePartnerInput{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePartner_NotFound(t *testing.T) {
	svc := newTestPartnerService()

	err := svc.DeletePartner(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
