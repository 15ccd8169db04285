package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dbchat/dbchat/internal/database"
	"github.com/dbchat/dbchat/internal/shared"
)

// Setup writes a starter config file, initializes the history store, and
// verifies MySQL connectivity.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	r.config = config

	r.logger.Info("initializing history store", "path", config.History.Path)

	db, err := shared.NewHistoryDB(config.History.Path)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.History.MaxOpenConns, config.History.MaxIdleConns)

	r.logger.Info("running history migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Info("checking MySQL connectivity", "host", config.MySQL.Host, "database", config.MySQL.Database)
	target, err := database.Open(ctx, config.MySQL)
	if err != nil {
		r.logger.Warn("MySQL not reachable yet; update the [mysql] section and retry", "error", err)
	} else {
		tables, err := target.Tables(ctx)
		if err != nil {
			r.logger.Warn("connected but failed to list tables", "error", err)
		} else {
			r.logger.Info("MySQL connected", "tables", len(tables))
		}
		target.Close()
	}

	r.logger.Infof("setup complete for history store: %v", config.History.Path)
	return nil
}
