package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"collabriss.backend/internal/config"
	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/internal/infrastructure/repositories"
	"collabriss.backend/internal/usecases"
)

func newSQLiteRuntime(t *testing.T) referralAdminRuntime {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE referral_codes (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		discount_percent INTEGER NOT NULL,
		user_name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`).Error)
	return usecases.NewReferralUsecase(repositories.NewReferralCodeRepository(db), nil)
}

func testDeps(runtime referralAdminRuntime, out io.Writer) referralAdminDeps {
	return referralAdminDeps{
		loadEnv: func() error { return nil },
		loadCfg: func() *config.Config { return &config.Config{} },
		prepare: func(*config.Config) (referralAdminRuntime, io.Closer, error) {
			return runtime, nil, nil
		},
		out: out,
	}
}

func TestRunReferralAdmin_Lifecycle(t *testing.T) {
	runtime := newSQLiteRuntime(t)
	var out bytes.Buffer
	deps := testDeps(runtime, &out)

	require.NoError(t, runReferralAdmin([]string{"create", "-code", "ADA20", "-name", "Ada", "-discount", "20"}, deps))
	assert.Contains(t, out.String(), "Created referral code ADA20 (20% from Ada)")

	details, err := runtime.(*usecases.ReferralUsecase).Validate(context.Background(), "ADA20")
	require.NoError(t, err)
	assert.Equal(t, 20, details.DiscountPercent)

	out.Reset()
	require.NoError(t, runReferralAdmin([]string{"deactivate", "-code", "ADA20"}, deps))
	assert.Contains(t, out.String(), "active=false")

	_, err = runtime.(*usecases.ReferralUsecase).Validate(context.Background(), "ADA20")
	assert.ErrorIs(t, err, domainerrors.ErrReferralInactive)

	out.Reset()
	require.NoError(t, runReferralAdmin([]string{"list"}, deps))
	assert.Contains(t, out.String(), "ADA20")
	assert.Contains(t, out.String(), "false")

	out.Reset()
	require.NoError(t, runReferralAdmin([]string{"list", "-active"}, deps))
	assert.NotContains(t, out.String(), "ADA20")

	require.NoError(t, runReferralAdmin([]string{"activate", "-code", "ADA20"}, deps))
	_, err = runtime.(*usecases.ReferralUsecase).Validate(context.Background(), "ADA20")
	assert.NoError(t, err)
}

func TestRunReferralAdmin_Errors(t *testing.T) {
	runtime := newSQLiteRuntime(t)
	deps := testDeps(runtime, io.Discard)

	err := runReferralAdmin(nil, deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")

	err = runReferralAdmin([]string{"rename", "-code", "X"}, deps)
	assert.Contains(t, err.Error(), `unknown command "rename"`)

	err = runReferralAdmin([]string{"create", "-name", "Ada"}, deps)
	assert.EqualError(t, err, "-code is required")

	err = runReferralAdmin([]string{"create", "-code", "X", "-name", "Ada", "-discount", "120"}, deps)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	err = runReferralAdmin([]string{"deactivate", "-code", "NOPE"}, deps)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = runReferralAdmin([]string{"list", "-bogus"}, deps)
	assert.Error(t, err)
}

func TestRunReferralAdmin_PrepareError(t *testing.T) {
	deps := testDeps(nil, io.Discard)
	deps.prepare = func(*config.Config) (referralAdminRuntime, io.Closer, error) {
		return nil, nil, errors.New("failed to connect db: refused")
	}
	err := runReferralAdmin([]string{"list"}, deps)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "refused"))
}

type stubRuntime struct {
	codes []*entities.ReferralCode
}

func (s stubRuntime) CreateCode(context.Context, *entities.CreateReferralCodeInput) (*entities.ReferralCode, error) {
	return nil, errors.New("not used")
}
func (s stubRuntime) SetActive(context.Context, string, bool) error { return nil }
func (s stubRuntime) List(context.Context, bool) ([]*entities.ReferralCode, error) {
	return s.codes, nil
}

func TestRunReferralAdmin_ListFormatsTable(t *testing.T) {
	var out bytes.Buffer
	deps := testDeps(stubRuntime{codes: []*entities.ReferralCode{
		{Code: "ADA20", UserName: "Ada", DiscountPercent: 20, IsActive: true},
	}}, &out)

	require.NoError(t, runReferralAdmin([]string{"list"}, deps))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"CODE", "REFERRER", "DISCOUNT", "ACTIVE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"ADA20", "Ada", "20%", "true"}, strings.Fields(lines[1]))
}

func TestMain_ExitsWhenCommandMissing(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_REFERRAL_ADMIN") == "1" {
		os.Args = []string{"referral-admin"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsWhenCommandMissing")
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_REFERRAL_ADMIN=1")
	if err := cmd.Run(); err == nil {
		t.Fatal("expected helper process to fail without a command")
	}
}
