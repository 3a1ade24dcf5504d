package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"

	"tourdesk/config"
	"tourdesk/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

func connectionString(config *config.Config) string {
	write := config.DB.Postgres.Write

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s&x-migrations-table=%s",
		write.Username,
		write.Password,
		net.JoinHostPort(write.Host, write.Port),
		getDBName(config, write.Name),
		write.SSLMode,
		config.DB.Postgres.MigrationTable,
	)
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return nil, fmt.Errorf("error opening embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, connectionString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func run(mig *migrate.Migrate, action string) error {
	switch action {
	case ActionUp:
		return mig.Up() //nolint:wrapcheck
	case ActionDown:
		return mig.Steps(-1) //nolint:wrapcheck
	case ActionStepUp:
		return mig.Steps(1) //nolint:wrapcheck
	case ActionDrop:
		return mig.Down() //nolint:wrapcheck
	}

	return fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

func Runner(config *config.Config, action string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer func() {
		sourceErr, dbErr := mig.Close()
		if sourceErr != nil || dbErr != nil {
			log.Warn().AnErr("source", sourceErr).AnErr("database", dbErr).Msg("Failed to close migrate instance")
		}
	}()

	if err = run(mig, action); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
