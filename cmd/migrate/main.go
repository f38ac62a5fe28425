package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pushp314/coursehub-backend/internal/config"
	"github.com/pushp314/coursehub-backend/internal/database"
	"github.com/pushp314/coursehub-backend/internal/migrations"
	"github.com/pushp314/coursehub-backend/internal/models"
	"github.com/pushp314/coursehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// migrate applies or reverts schema changes and prints the live schema.
//
//	migrate up      AutoMigrate + pending versioned migrations
//	migrate down    revert the latest versioned migration
//	migrate status  columns of every model table and the applied migrations
func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down|status]")
	}
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "status"
	}

	config.LoadConfig()
	logger.Init(config.AppConfig.Env)

	db, err := database.Connect(config.AppConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	switch cmd {
	case "up":
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("Migration failed")
		}
	case "down":
		id, err := migrations.NewMigrator(db).Rollback()
		if err != nil {
			logger.Fatal().Err(err).Msg("Rollback failed")
		}
		if id == "" {
			fmt.Println("nothing to roll back")
			return
		}
		fmt.Println("rolled back", id)
	case "status":
		printStatus(db)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printStatus(db *gorm.DB) {
	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			logger.Fatal().Err(err).Msgf("Failed to parse %T", model)
		}
		table := stmt.Schema.Table

		columns, err := db.Migrator().ColumnTypes(table)
		if err != nil || len(columns) == 0 {
			fmt.Printf("%s: missing\n", table)
			continue
		}
		fmt.Printf("%s:\n", table)
		for _, col := range columns {
			fmt.Printf("  - %s %s\n", col.Name(), col.DatabaseTypeName())
		}
	}

	if !db.Migrator().HasTable(&migrations.MigrationRecord{}) {
		fmt.Println("migrations: none applied")
		return
	}
	var applied []migrations.MigrationRecord
	if err := db.Order("id").Find(&applied).Error; err != nil {
		logger.Fatal().Err(err).Msg("Failed to read schema_migrations")
	}
	fmt.Println("migrations:")
	for _, m := range applied {
		fmt.Printf("  - %s (%s)\n", m.ID, m.AppliedAt.Format("2006-01-02 15:04"))
	}
}
