package main

import (
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"

	"staffdir/internal/platform/config"
	"staffdir/internal/platform/database"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	config.Load()

	m, err := database.NewMigrator(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not create migrator: %v", err)
	}
	defer m.Close()

	if *down {
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Migrations rolled back.")
		return
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration up failed: %v", err)
	}
	log.Println("Migrations applied.")
}
