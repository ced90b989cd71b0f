package commands

import (
	"errors"

	"github.com/robalyx/warden/internal/database"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrTimeRequired is returned when a command is missing its TIME argument.
var ErrTimeRequired = errors.New("TIME argument required")

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}
