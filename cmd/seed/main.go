// seed crea el primer usuario Supervisor. Sin él nadie puede dar de alta usuarios,
// porque POST /api/users exige rol Supervisor.
//
// Uso: SEED_PASSWORD=... go run ./cmd/seed <matricula> [nombre]
// Usa la misma configuración de base de datos que la API y aplica las migraciones pendientes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/application/usecase"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/instock-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/instock-api/pkg/config"
	"github.com/jhoicas/instock-api/pkg/logger"
	"github.com/jhoicas/instock-api/pkg/password"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed <matricula> [nombre]")
		os.Exit(2)
	}
	login := os.Args[1]
	name := "Supervisor"
	if len(os.Args) > 2 {
		name = strings.Join(os.Args[2:], " ")
	}
	plain := os.Getenv("SEED_PASSWORD")
	if plain == "" {
		fmt.Fprintln(os.Stderr, "SEED_PASSWORD es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := postgres.OpenDB(pool)
	if err := migrations.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	_ = db.Close()

	users := usecase.NewUserUseCase(postgres.NewUserRepository(pool), password.NewHasher(cfg.Auth.BcryptCost), log)
	out, err := users.Register(ctx, dto.CreateUserRequest{
		Name:     name,
		Login:    login,
		Password: plain,
		Role:     string(entity.RoleSupervisor),
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("matricula", login).Msg("el usuario ya existe, nada que hacer")
	case err != nil:
		log.Fatal().Err(err).Msg("crear supervisor")
	default:
		log.Info().Str("user_id", out.ID).Str("matricula", out.Login).Msg("supervisor creado")
	}
}
