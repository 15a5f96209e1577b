// cmd/tools/catalog-seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"pathfinder-workers/internal/common/config"
	"pathfinder-workers/internal/common/database"
	"pathfinder-workers/internal/common/logger"
	"pathfinder-workers/internal/models"
	"pathfinder-workers/internal/repository/postgres"
)

// seedFile is the layout accepted by `seed -file`.
type seedFile struct {
	Scores   []models.TestScore `json:"scores"`
	Programs []models.Program   `json:"programs"`
}

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	scoreCmd := flag.NewFlagSet("score", flag.ExitOnError)

	seedPath := seedCmd.String("file", "", "JSON file with scores and programs (defaults to the built-in sample data)")
	seedMigrate := seedCmd.Bool("migrate", true, "Create tables before seeding")
	testID := scoreCmd.String("test", "", "Test ID to look up")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var cmd *flag.FlagSet
	switch os.Args[1] {
	case "migrate":
		cmd = migrateCmd
	case "seed":
		cmd = seedCmd
	case "list":
		cmd = listCmd
	case "score":
		cmd = scoreCmd
	default:
		help()
		return
	}
	cmd.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewStructured(cfg.Logging.Level, "console")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error opening postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		fmt.Printf("Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case migrateCmd:
		if err := postgres.Migrate(ctx, pg.DB); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migration complete.")

	case seedCmd:
		data := seedFile{Scores: postgres.SeedScores, Programs: postgres.SeedPrograms}
		if *seedPath != "" {
			if data, err = readSeedFile(*seedPath); err != nil {
				fmt.Printf("Error reading %s: %v\n", *seedPath, err)
				os.Exit(1)
			}
		}
		if *seedMigrate {
			if err := postgres.Migrate(ctx, pg.DB); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
		}
		if err := postgres.Seed(ctx, pg.DB, data.Scores, data.Programs); err != nil {
			fmt.Printf("Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %d test scores and %d programs.\n", len(data.Scores), len(data.Programs))

		// Workers read the catalog through Redis; drop the stale copy.
		if err := invalidateCatalog(ctx, cfg, pg, log); err != nil {
			fmt.Printf("Warning: catalog cache not invalidated: %v\n", err)
		}

	case listCmd:
		repo := postgres.NewProgramRepository(pg.DB, nil, postgres.CacheConfig{}, log)
		programs, err := repo.GetAllPrograms(ctx)
		if err != nil {
			fmt.Printf("Error listing programs: %v\n", err)
			os.Exit(1)
		}
		for _, p := range programs {
			fmt.Printf("%-8s quant=%.2f verbal=%.2f logical=%.2f  %s\n", p.Name, p.ReqQuant, p.ReqVerbal, p.ReqLogical, p.Description)
		}
		fmt.Printf("%d programs.\n", len(programs))

	case scoreCmd:
		if *testID == "" {
			fmt.Println("Error: -test is required for score.")
			scoreCmd.Usage()
			os.Exit(1)
		}
		repo := postgres.NewScoreRepository(pg.DB, log)
		apt, err := repo.GetAptitudeScores(ctx, *testID)
		if err != nil {
			fmt.Printf("Error looking up %s: %v\n", *testID, err)
			os.Exit(1)
		}
		if apt == nil {
			fmt.Printf("No scores for %s.\n", *testID)
			os.Exit(2)
		}
		fmt.Printf("%s: quant=%d verbal=%d logical=%d average=%.1f\n", *testID, apt.Quant, apt.Verbal, apt.Logical, apt.Average())
	}
}

func readSeedFile(path string) (seedFile, error) {
	var data seedFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("invalid seed file: %w", err)
	}
	return data, nil
}

func invalidateCatalog(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, log logger.Logger) error {
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	repo := postgres.NewProgramRepository(pg.DB, rdb.Client, postgres.CacheConfig{Key: cfg.Catalog.CacheKey}, log)
	return repo.InvalidateCache(ctx)
}

func help() {
	fmt.Println("Usage: catalog-seeder <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  migrate   Create the test_scores and programs tables")
	fmt.Println("  seed      Upsert sample (or -file) scores and programs, then clear the catalog cache")
	fmt.Println("  list      Print the program catalog")
	fmt.Println("  score     Print the aptitude scores of one test (-test)")
	fmt.Println("  help      Show this help message")
}
