// Package main bootstraps an admin account and optionally loads sample books.
//
// Admins cannot be created through the API, so this is how the first one
// is made. Running it again promotes the existing account instead.
//
// Usage:
//
//	ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=... go run ./cmd/seed
//	SEED_SAMPLE_BOOKS=true go run ./cmd/seed -db-driver=postgres -db-url=...
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shelfwise/shelfwise-server/internal/auth"
	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/domain"
	domainerrors "github.com/shelfwise/shelfwise-server/internal/errors"
	"github.com/shelfwise/shelfwise-server/internal/id"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/service"
	"github.com/shelfwise/shelfwise-server/internal/store"
	"github.com/shelfwise/shelfwise-server/internal/store/sqlstore"
	"github.com/shelfwise/shelfwise-server/internal/validation"
)

// adminAccount describes the account to create or promote.
type adminAccount struct {
	Name     string
	Email    string
	Password string
}

var sampleBooks = []service.CreateBookRequest{
	{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Description: "A desert planet, a noble family and the spice that everyone wants."},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic", Description: "Elizabeth Bennet navigates manners, marriage and first impressions."},
	{Title: "The Hobbit", Author: "J. R. R. Tolkien", Genre: "Fantasy", Description: "Bilbo Baggins is swept into a quest to reclaim a dwarven kingdom."},
	{Title: "Neuromancer", Author: "William Gibson", Genre: "Science Fiction", Description: "A washed-up hacker is hired for one last job in cyberspace."},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction", Description: "An envoy to a frozen world learns what it means to be human."},
	{Title: "Emma", Author: "Jane Austen", Genre: "Classic", Description: "A young matchmaker meddles in the love lives of her neighbours."},
}

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal("Invalid database driver", "error", err)
	}
	if dialect == sqlstore.SQLite {
		if err := os.MkdirAll(cfg.Data.Path, 0o750); err != nil {
			log.Fatal("Failed to create data directory", "error", err)
		}
	}

	ctx := context.Background()
	st, err := sqlstore.Open(ctx, dialect, cfg.Database.URL, sqlstore.Options{}, log.Logger)
	if err != nil {
		log.Fatal("Failed to open database", "error", err)
	}
	defer st.Close()

	account := adminAccount{
		Name:     envOr("ADMIN_NAME", "Administrator"),
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if account.Email != "" {
		admin, err := ensureAdmin(ctx, st, account)
		if err != nil {
			log.Fatal("Failed to bootstrap admin", "error", err)
		}
		log.Info("Admin ready", "user_id", admin.ID, "email", admin.Email)
	} else {
		log.Info("ADMIN_EMAIL not set, skipping admin bootstrap")
	}

	if strings.EqualFold(os.Getenv("SEED_SAMPLE_BOOKS"), "true") {
		// No index here; the server rebuilds it from the database on start.
		books := service.NewBookService(st, nil, nil, validation.New(), log)
		created, err := seedBooks(ctx, books, sampleBooks)
		if err != nil {
			log.Fatal("Failed to seed books", "error", err)
		}
		log.Info("Sample books seeded", "created", created, "skipped", len(sampleBooks)-created)
	}
}

// ensureAdmin promotes the account with the given email, or creates it as an
// admin. An existing password is left alone.
func ensureAdmin(ctx context.Context, st store.Store, account adminAccount) (*domain.User, error) {
	email := validation.NormalizeEmail(account.Email)

	existing, err := st.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		if err := st.SetUserRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
		existing.Role = domain.RoleAdmin
		return existing, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	if len(account.Password) < 6 {
		return nil, errors.New("ADMIN_PASSWORD must be at least 6 characters to create a new admin")
	}
	hash, err := auth.HashPassword(account.Password)
	if err != nil {
		return nil, err
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, err
	}

	admin := &domain.User{
		ID:           userID,
		Name:         validation.EscapeHTML(strings.TrimSpace(account.Name)),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// seedBooks creates each book unless it already exists and reports how many were new.
func seedBooks(ctx context.Context, books *service.BookService, reqs []service.CreateBookRequest) (int, error) {
	created := 0
	for _, req := range reqs {
		_, err := books.Create(ctx, req)
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create %q: %w", req.Title, err)
		}
		created++
	}
	return created, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
