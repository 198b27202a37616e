package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
)

func newProfile(userID uuid.UUID, subdomain string) *entities.MerchantProfile {
	return &entities.MerchantProfile{
		UserID:       userID,
		Email:        "ada@collabriss.com",
		Subdomain:    subdomain,
		BusinessName: "Ada Styles",
		FirstName:    "Ada",
		LastName:     "Obi",
		Category:     entities.CategoryFashion,
		Channels:     []entities.Channel{entities.ChannelInstagram, entities.ChannelWhatsApp},
		Phone:        "+2348000000000",
		ReferralCode: null.StringFrom("ADA20"),
	}
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, newProfile(userID, "ada-styles-k3x9")))

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "ada-styles-k3x9", got.Subdomain)
	require.Equal(t, []entities.Channel{entities.ChannelInstagram, entities.ChannelWhatsApp}, got.Channels)
	require.Equal(t, "ADA20", got.ReferralCode.String)

	bySub, err := repo.GetBySubdomain(ctx, "ada-styles-k3x9")
	require.NoError(t, err)
	require.Equal(t, userID, bySub.UserID)

	_, err = repo.GetBySubdomain(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileRepository_CreateConflictIsDistinguishable(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, newProfile(userID, "ada-styles-k3x9")))
	err := repo.Create(ctx, newProfile(userID, "ada-styles-zz11"))
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestProfileRepository_UpdateKeepsSubdomain(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, newProfile(userID, "ada-styles-k3x9")))

	p := newProfile(userID, "something-else")
	p.BusinessName = "Ada Couture"
	p.Channels = nil
	p.ReferralCode = null.String{}
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "ada-styles-k3x9", got.Subdomain)
	require.Equal(t, "Ada Couture", got.BusinessName)
	require.Empty(t, got.Channels)
	require.False(t, got.ReferralCode.Valid)

	err = repo.Update(ctx, newProfile(uuid.New(), "x"))
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileRepository_UpsertIsIdempotentAndKeepsSubdomain(t *testing.T) {
	db := newTestDB(t)
	createProfileTable(t, db)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, newProfile(userID, "ada-styles-k3x9")))

	retry := newProfile(userID, "ada-styles-p0p0")
	retry.Phone = "+2348111111111"
	require.NoError(t, repo.Upsert(ctx, retry))

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "ada-styles-k3x9", got.Subdomain)
	require.Equal(t, "+2348111111111", got.Phone)

	var count int64
	require.NoError(t, db.Table("merchant_profiles").Count(&count).Error)
	require.Equal(t, int64(1), count)
}
