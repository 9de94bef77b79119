// Command seedadmin creates the first admin account, or promotes an existing
// account to an active admin. Roles cannot be changed over HTTP, so this is
// the only way to bootstrap an administrator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/multierr"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/core/ports"
	"github.com/accounthub/account-service/internal/core/security"
	"github.com/accounthub/account-service/internal/core/service"
	mongostore "github.com/accounthub/account-service/internal/infrastructure/db/mongo"
	"github.com/accounthub/account-service/internal/pkg/config"
	"github.com/accounthub/account-service/pkg/logger"
)

type seedConfig struct {
	Mongo      config.MongoConfig
	BcryptCost int    `env:"BCRYPT_COST,    default=12"`
	LogLevel   string `env:"LOG_LEVEL,      default=info"`
	Password   string `env:"ADMIN_PASSWORD"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("seed admin failed")
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("seedadmin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email (required)")
	name := fs.String("name", "Administrator", "admin full name")
	password := fs.String("password", "", "admin password; falls back to ADMIN_PASSWORD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if *password == "" {
		*password = cfg.Password
	}

	lg := logger.Init(logger.Options{Service: "seedadmin", Level: cfg.LogLevel, Pretty: true})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "seedadmin",
	})
	if err != nil {
		return err
	}
	repo := mongostore.NewAccountRepository(db)

	seedErr := repo.EnsureIndexes(ctx)
	if seedErr == nil {
		seedErr = seed(ctx, repo, newSignup(repo, cfg.BcryptCost, lg), seedInput{
			Email:    *email,
			FullName: *name,
			Password: *password,
		}, lg)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return multierr.Append(seedErr, client.Disconnect(closeCtx))
}

// newSignup builds an auth service that may assign roles at signup. The
// token it issues is discarded, so it signs with a throwaway secret.
func newSignup(repo ports.AccountRepository, cost int, lg zerolog.Logger) ports.AuthService {
	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret: uuid.NewString(),
		Issuer: "seedadmin",
		TTL:    time.Minute,
	})
	if err != nil {
		panic(err)
	}
	return service.NewAuthService(repo, security.NewBcryptHasher(cost, nil), tokens,
		service.AuthOptions{AllowSignupRole: true}, lg)
}

type seedInput struct {
	Email    string
	FullName string
	Password string
}

type adminStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	SetRole(ctx context.Context, id string, role domain.Role) error
	TransitionStatus(ctx context.Context, id string, to domain.Status) (*domain.Account, error)
}

// seed creates the admin when the email is unknown. An existing account keeps
// its password and is promoted to an active admin.
func seed(ctx context.Context, store adminStore, signup ports.AuthService, in seedInput, lg zerolog.Logger) error {
	if in.Email == "" {
		return errors.New("-email is required")
	}

	existing, err := store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if in.Password == "" {
			return errors.New("a password is required to create a new admin")
		}
		res, err := signup.Signup(ctx, ports.SignupInput{
			FullName: in.FullName,
			Email:    in.Email,
			Password: in.Password,
			Role:     string(domain.RoleAdmin),
		})
		if err != nil {
			return describe(err)
		}
		lg.Info().Str("account_id", res.Account.ID).Str("email", res.Account.Email).Msg("admin created")
		return nil
	case err != nil:
		return err
	}

	if existing.Role != domain.RoleAdmin {
		if err := store.SetRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return err
		}
	}
	if existing.Status != domain.StatusActive {
		if _, err := store.TransitionStatus(ctx, existing.ID, domain.StatusActive); err != nil && !errors.Is(err, domain.ErrValidation) {
			return err
		}
	}
	lg.Info().Str("account_id", existing.ID).Str("email", existing.Email).Msg("account promoted to admin")
	return nil
}

func describe(err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) && len(derr.Details) > 0 {
		return fmt.Errorf("%w: %s", err, strings.Join(derr.Details, "; "))
	}
	return err
}
