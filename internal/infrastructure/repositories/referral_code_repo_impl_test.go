package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
)

func TestReferralCodeRepository_GetByCodeIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	createReferralCodeTable(t, db)
	repo := NewReferralCodeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.ReferralCode{Code: "ADA20", IsActive: true, DiscountPercent: 20, UserName: "Ada"}))

	got, err := repo.GetByCode(ctx, "ADA20")
	require.NoError(t, err)
	require.Equal(t, "Ada", got.UserName)
	require.Equal(t, 20, got.DiscountPercent)
	require.True(t, got.IsActive)

	_, err = repo.GetByCode(ctx, "ada20")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReferralCodeRepository_FirstMatchWins(t *testing.T) {
	db := newTestDB(t)
	createReferralCodeTable(t, db)
	repo := NewReferralCodeRepository(db)
	ctx := context.Background()

	older := time.Now().Add(-time.Hour)
	mustExec(t, db, `INSERT INTO referral_codes (id, code, is_active, discount_percent, user_name, created_at, updated_at) VALUES (?,?,?,?,?,?,?)`,
		uuid.New().String(), "DUP", true, 15, "First", older, older)
	mustExec(t, db, `INSERT INTO referral_codes (id, code, is_active, discount_percent, user_name, created_at, updated_at) VALUES (?,?,?,?,?,?,?)`,
		uuid.New().String(), "DUP", false, 50, "Second", time.Now(), time.Now())

	got, err := repo.GetByCode(ctx, "DUP")
	require.NoError(t, err)
	require.Equal(t, "First", got.UserName)
}

func TestReferralCodeRepository_SetActiveAndList(t *testing.T) {
	db := newTestDB(t)
	createReferralCodeTable(t, db)
	repo := NewReferralCodeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.ReferralCode{Code: "ADA20", IsActive: true, DiscountPercent: 20, UserName: "Ada"}))
	require.NoError(t, repo.Create(ctx, &entities.ReferralCode{Code: "BOLA10", IsActive: true, DiscountPercent: 10, UserName: "Bola"}))

	require.NoError(t, repo.SetActive(ctx, "BOLA10", false))
	got, err := repo.GetByCode(ctx, "BOLA10")
	require.NoError(t, err)
	require.False(t, got.IsActive)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "ADA20", active[0].Code)

	require.ErrorIs(t, repo.SetActive(ctx, "MISSING", true), domainerrors.ErrNotFound)
}
