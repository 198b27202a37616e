package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"collabriss.backend/internal/config"
	"collabriss.backend/internal/domain/entities"
	"collabriss.backend/internal/infrastructure/datasources/postgres"
	"collabriss.backend/internal/infrastructure/repositories"
	"collabriss.backend/internal/usecases"
)

const usage = `usage: referral-admin <command> [flags]

commands:
  create      -code CODE -name REFERRER -discount PERCENT
  deactivate  -code CODE
  activate    -code CODE
  list        [-active]`

var openReferralDB = func(cfg config.DatabaseConfig) (*gorm.DB, io.Closer, error) {
	sqlDB, err := postgres.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.NewGorm(sqlDB, false)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return db, sqlDB, nil
}

type referralAdminRuntime interface {
	CreateCode(ctx context.Context, input *entities.CreateReferralCodeInput) (*entities.ReferralCode, error)
	SetActive(ctx context.Context, code string, active bool) error
	List(ctx context.Context, activeOnly bool) ([]*entities.ReferralCode, error)
}

type referralAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (referralAdminRuntime, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultReferralAdminDeps() referralAdminDeps {
	return referralAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (referralAdminRuntime, io.Closer, error) {
			db, closer, err := openReferralDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			repo := repositories.NewReferralCodeRepository(db)
			return usecases.NewReferralUsecase(repo, nil), closer, nil
		},
		out: os.Stdout,
	}
}

func runReferralAdmin(args []string, deps referralAdminDeps) error {
	def := defaultReferralAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	if len(args) == 0 {
		return errors.New(usage)
	}
	command, rest := args[0], args[1:]

	fs := flag.NewFlagSet("referral-admin "+command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	codeFlag := fs.String("code", "", "referral code, matched exactly")
	nameFlag := fs.String("name", "", "referrer display name")
	discountFlag := fs.Int("discount", 0, "discount percent (0-100)")
	activeFlag := fs.Bool("active", false, "list only active codes")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch command {
	case "create", "deactivate", "activate", "list":
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	if command != "list" && *codeFlag == "" {
		return errors.New("-code is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	switch command {
	case "create":
		ref, err := runtime.CreateCode(ctx, &entities.CreateReferralCodeInput{
			Code:            *codeFlag,
			UserName:        *nameFlag,
			DiscountPercent: *discountFlag,
		})
		if err != nil {
			return fmt.Errorf("failed creating referral code: %w", err)
		}
		_, _ = fmt.Fprintf(deps.out, "Created referral code %s (%d%% from %s)\n", ref.Code, ref.DiscountPercent, ref.UserName)
	case "deactivate", "activate":
		active := command == "activate"
		if err := runtime.SetActive(ctx, *codeFlag, active); err != nil {
			return fmt.Errorf("failed to %s referral code %s: %w", command, *codeFlag, err)
		}
		_, _ = fmt.Fprintf(deps.out, "Referral code %s active=%t\n", *codeFlag, active)
	case "list":
		codes, err := runtime.List(ctx, *activeFlag)
		if err != nil {
			return fmt.Errorf("failed listing referral codes: %w", err)
		}
		w := tabwriter.NewWriter(deps.out, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "CODE\tREFERRER\tDISCOUNT\tACTIVE")
		for _, c := range codes {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d%%\t%t\n", c.Code, c.UserName, c.DiscountPercent, c.IsActive)
		}
		return w.Flush()
	}
	return nil
}

func main() {
	if err := runReferralAdmin(os.Args[1:], defaultReferralAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
