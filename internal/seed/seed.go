// Package seed provisions the initial admin account and demo catalog on startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

// Accounts is the part of the identity directory seeding uses.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) (*types.UserAccount, bool, error)
	Register(ctx context.Context, candidate types.UserAccount, password string) (*types.UserAccount, error)
	SetRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}

// Catalog is the part of the drug store seeding uses. Seeded drugs are written
// directly, without an acting user or audit entry.
type Catalog interface {
	ListDrugs(ctx context.Context, limit, offset int) ([]types.Drug, error)
	CreateDrug(ctx context.Context, drug types.Drug) (*types.Drug, error)
}

// DemoDrugs is the catalog inserted into an empty database.
var DemoDrugs = []types.Drug{
	{
		Name:                    "Nexium",
		ChemicalName:            "esomeprazole",
		Manufacturer:            "Accord Healthcare Inc",
		Description:             "esomeprazole 40 MG Injection [Nexium]",
		DosageAndAdministration: "GERD with Erosive Esophagitis (2.1): ...",
	},
	{
		Name:                    "Dexilant",
		ChemicalName:            "dexlansoprazole",
		Manufacturer:            "Takeda Pharma",
		Description:             "dexlansoprazole 30 MG Delayed Release Oral Capsule [Dexilant]",
		DosageAndAdministration: "Recommended dosage in patients 12 years of age and older: ...",
	},
}

type Seeder struct {
	cfg      config.SeedConfig
	accounts Accounts
	catalog  Catalog
	logger   *slog.Logger
}

func NewSeeder(cfg config.SeedConfig, accounts Accounts, catalog Catalog, logger *slog.Logger) *Seeder {
	return &Seeder{
		cfg:      cfg,
		accounts: accounts,
		catalog:  catalog,
		logger:   logger.With(slog.String("component", "seed")),
	}
}

// Run is idempotent: an existing admin username or a non-empty catalog is left alone.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.InfoContext(ctx, "Seeding disabled")
		return nil
	}
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	if s.cfg.DemoDrugs {
		return s.seedDrugs(ctx)
	}
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminUsername == "" || s.cfg.AdminPassword == "" {
		s.logger.WarnContext(ctx, "Admin credentials not configured, skipping admin seed")
		return nil
	}

	admin, err := s.accounts.Register(ctx, types.UserAccount{
		Username: s.cfg.AdminUsername,
		Name:     "Admin",
		Email:    s.cfg.AdminEmail,
	}, s.cfg.AdminPassword)
	if errors.Is(err, types.ErrConflict) {
		return s.ensureExistingAdmin(ctx)
	}
	if err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	if _, err := s.accounts.SetRole(ctx, admin.ID, types.RoleAdmin.String()); err != nil {
		return fmt.Errorf("promote seeded admin: %w", err)
	}
	s.logger.InfoContext(ctx, "Seeded admin account", slog.String("username", admin.Username))
	return nil
}

// ensureExistingAdmin finishes a seed that registered the admin but never
// promoted it. Only an account holding the configured password is touched.
func (s *Seeder) ensureExistingAdmin(ctx context.Context) error {
	l := s.logger.With(slog.String("username", s.cfg.AdminUsername))

	admin, ok, err := s.accounts.Authenticate(ctx, s.cfg.AdminUsername, s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("look up existing admin account: %w", err)
	}
	if !ok {
		// Password was changed after seeding; the account is no longer ours to manage.
		l.WarnContext(ctx, "Admin username taken with different credentials, leaving it unchanged")
		return nil
	}
	if admin.Role == types.RoleAdmin {
		l.DebugContext(ctx, "Admin account already exists")
		return nil
	}

	if _, err := s.accounts.SetRole(ctx, admin.ID, types.RoleAdmin.String()); err != nil {
		return fmt.Errorf("promote existing admin: %w", err)
	}
	l.InfoContext(ctx, "Promoted existing admin account", slog.String("previous_role", admin.Role.String()))
	return nil
}

func (s *Seeder) seedDrugs(ctx context.Context) error {
	existing, err := s.catalog.ListDrugs(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("check catalog before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, d := range DemoDrugs {
		d.ID = uuid.New()
		if _, err := s.catalog.CreateDrug(ctx, d); err != nil {
			if errors.Is(err, types.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed drug %q: %w", d.Name, err)
		}
	}
	s.logger.InfoContext(ctx, "Seeded demo catalog", slog.Int("count", len(DemoDrugs)))
	return nil
}
