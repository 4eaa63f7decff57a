// Package cli implements the subcommands behind main.go. It is thin
// presentation glue: flag parsing, wiring the export service, and printing
// results.
package cli

import (
	"fmt"

	"github.com/mrlokans/atlas-export/internal/config"
	"github.com/mrlokans/atlas-export/internal/database"
	"github.com/mrlokans/atlas-export/internal/services"
)

// buildService wires config, store and service for one command invocation.
// The returned cleanup closes the store.
func buildService(dbPath, exportDir string) (*services.ExportService, func(), error) {
	cfg := config.NewConfig()
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}

	if cfg.Atlassian.Domain == "" || cfg.Atlassian.Email == "" || cfg.Atlassian.APIToken == "" {
		return nil, nil, fmt.Errorf("missing credentials: set ATLASSIAN_DOMAIN, ATLASSIAN_EMAIL and ATLASSIAN_API_TOKEN")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }
	return services.NewExportService(cfg, db), cleanup, nil
}

// buildOfflineService wires a service that only touches the local store
// (render, stats); credentials are not required.
func buildOfflineService(dbPath, exportDir string) (*services.ExportService, func(), error) {
	cfg := config.NewConfig()
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }
	return services.NewExportService(cfg, db), cleanup, nil
}
