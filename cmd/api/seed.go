package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/ideabox-api/internal/config"
	"github.com/jwalitptl/ideabox-api/internal/model"
	reviewerService "github.com/jwalitptl/ideabox-api/internal/service/reviewer"
	"github.com/jwalitptl/ideabox-api/pkg/security"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap admin and reviewer accounts",
	Long:  `Creates ADMIN001 and reviewer001 when they do not exist yet. Existing accounts are left untouched.`,
	RunE:  runSeed,
}

func seedAccounts(cfg config.SeedConfig) []model.CreateReviewerRequest {
	return []model.CreateReviewerRequest{
		{
			EmployeeNumber: "ADMIN001",
			Name:           "Admin User",
			Email:          cfg.AdminEmail,
			Password:       cfg.AdminPassword,
			Role:           model.RoleAdmin,
			Department:     "admin",
			Designation:    "Administrator",
			MobileNumber:   cfg.AdminMobile,
		},
		{
			EmployeeNumber: "reviewer001",
			Name:           "Reviewer User",
			Email:          cfg.ReviewerEmail,
			Password:       cfg.ReviewerPassword,
			Role:           model.RoleReviewer,
			Department:     "admin",
			Designation:    "Reviewer",
			MobileNumber:   cfg.ReviewerMobile,
		},
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Seed.AdminPassword == "" || cfg.Seed.ReviewerPassword == "" {
		return errors.New("seed.admin_password and seed.reviewer_password must be set")
	}
	if cfg.Database.Driver == "memory" {
		return errors.New("seeding the in-memory store has no effect")
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	svc := reviewerService.NewService(store.Principals, security.NewBcryptHasher(bcrypt.DefaultCost), appLogger)
	for _, req := range seedAccounts(cfg.Seed) {
		created, err := svc.Ensure(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", req.EmployeeNumber, err)
		}
		if created {
			log.Info().Str("employee_number", req.EmployeeNumber).Str("role", string(req.Role)).Msg("account created")
		} else {
			log.Info().Str("employee_number", req.EmployeeNumber).Msg("account already exists")
		}
	}
	return nil
}
