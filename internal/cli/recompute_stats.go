package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mujeebkhan77/digital-Library/internal/config"
	"github.com/mujeebkhan77/digital-Library/internal/database"
	"github.com/mujeebkhan77/digital-Library/internal/scheduler"
)

type RecomputeStatsCommand struct {
	DatabasePath string
}

func NewRecomputeStatsCommand() *RecomputeStatsCommand {
	return &RecomputeStatsCommand{}
}

func (cmd *RecomputeStatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("recompute-stats", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s recompute-stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Recompute denormalized catalog statistics (average ratings, read counts) once and exit.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *RecomputeStatsCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := scheduler.NewStatsScheduler(db.DB, "").Recompute(); err != nil {
		return fmt.Errorf("failed to recompute stats: %w", err)
	}

	fmt.Println("Catalog statistics recomputed.")
	return nil
}
