package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/davidhull/crewdesk/internal/config"
	"github.com/davidhull/crewdesk/internal/department"
	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/shift"
	"github.com/davidhull/crewdesk/internal/team"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo org: admin, staff, a department, a team, and a shift",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var demoStaff = []directory.CreateUserInput{
	{
		Email:     "maya.okafor@example.com",
		Username:  "maya.okafor",
		Password:  "changeme",
		FirstName: "Maya",
		LastName:  "Okafor",
		JobTitle:  "Shift Supervisor",
		RoleTags:  []string{"supervisor"},
	},
	{
		Email:     "jonas.lindqvist@example.com",
		Username:  "jonas.lindqvist",
		Password:  "changeme",
		FirstName: "Jonas",
		LastName:  "Lindqvist",
		JobTitle:  "Warehouse Operative",
	},
	{
		Email:     "priya.raman@example.com",
		Username:  "priya.raman",
		Password:  "changeme",
		FirstName: "Priya",
		LastName:  "Raman",
		JobTitle:  "Warehouse Operative",
	},
	{
		Email:     "tomas.herrera@example.com",
		Username:  "tomas.herrera",
		Password:  "changeme",
		FirstName: "Tomas",
		LastName:  "Herrera",
		JobTitle:  "Forklift Driver",
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := directory.NewStore(pool)
	teamStore := team.NewStore(pool)
	shiftStore := shift.NewStore(pool)
	departmentStore := department.NewStore(pool)

	// Check if seed has already run.
	existing, err := userStore.List(ctx)
	if err != nil {
		return fmt.Errorf("checking existing users: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	admin, err := userStore.Create(ctx, directory.CreateUserInput{
		Email:    "admin@example.com",
		Username: "admin",
		Password: "admin",
		Name:     "Console Admin",
		JobTitle: "Operations Manager",
		Role:     "admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	slog.Info("created admin", "id", admin.ID, "email", admin.Email)

	staff := make([]*directory.User, 0, len(demoStaff))
	for _, input := range demoStaff {
		u, err := userStore.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("creating user %q: %w", input.Email, err)
		}
		slog.Info("created user", "id", u.ID, "email", u.Email)
		staff = append(staff, u)
	}

	dep, err := departmentStore.Create(ctx, "Warehouse")
	if err != nil {
		return fmt.Errorf("creating department: %w", err)
	}
	slog.Info("created department", "id", dep.ID, "name", dep.Name)

	rec, err := teamStore.Create(ctx, team.CreateRequest{
		Name:         "Inbound Crew",
		Description:  "Receiving and putaway",
		TeamLeadID:   staff[0].ID,
		DepartmentID: dep.ID,
	})
	if err != nil {
		return fmt.Errorf("creating team: %w", err)
	}
	memberIDs := []string{staff[1].ID, staff[2].ID, staff[3].ID}
	if err := teamStore.ReplaceMembers(ctx, rec.ID, memberIDs); err != nil {
		return fmt.Errorf("adding team members: %w", err)
	}
	slog.Info("created team", "id", rec.ID, "name", rec.Name, "members", len(memberIDs))

	s, err := shiftStore.Create(ctx, shift.Shift{
		Name:               "Morning Shift",
		StartTime:          "06:00:00",
		EndTime:            "14:00:00",
		WorkDays:           []int{1, 2, 3, 4, 5},
		GracePeriodMinutes: 10,
	})
	if err != nil {
		return fmt.Errorf("creating shift: %w", err)
	}
	slog.Info("created shift", "id", s.ID, "name", s.Name)

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Admin:  admin@example.com / admin\n")
	fmt.Printf("Staff:  %d users (password: changeme)\n", len(staff))
	fmt.Printf("Team:   %s (%s)\n", rec.Name, rec.ID)
	fmt.Printf("Shift:  %s (%s)\n", s.Name, s.ID)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"admin@example.com\",\"password\":\"admin\"}'\n")
	fmt.Printf("  curl -H 'Authorization: Bearer <token>' http://localhost:8080/api/v1/admin/teams\n")

	return nil
}
