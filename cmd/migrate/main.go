package main

import (
	"errors"
	"fmt"
	"os"
	"passreset/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "up" && os.Args[1] != "down") {
		fmt.Fprintf(os.Stderr, "usage: %s up|down\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.PostgresqlURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create migrate instance: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	if os.Args[1] == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No change.")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("Success: no migrations applied.")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read version: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Success: version %d, dirty %t.\n", version, dirty)
}
