// Package migrations aplica el esquema embebido con goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/instock-api/pkg/logger"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate lleva el esquema a la última versión.
func Migrate(ctx context.Context, db *sql.DB, log *logger.Logger) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log: log.Component("migrations")})

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// gooseLogger adapta goose.Logger al logger de la aplicación.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
