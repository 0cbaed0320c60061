// Command seed provisions an administrator account out of band. There is no
// hardcoded admin credential anywhere in the service; running this against
// the database is the only way to mint the first admin.
//
// Usage:
//
//	ADMIN_NAME=... ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"log/slog"
	"os"

	"bookbridge/config"
	"bookbridge/internal/domain/lifecycle"
	"bookbridge/internal/infra/auth"
	logs "bookbridge/internal/infra/log"
	"bookbridge/internal/infra/persistence/postgres"
	"bookbridge/internal/usecase"
	"bookbridge/internal/usecase/impl"

	"go.uber.org/fx"
)

type seedParams struct {
	fx.In

	Admin      usecase.AdminUsecase
	Logger     *slog.Logger
	Shutdowner fx.Shutdowner
}

func main() {
	fx.New(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewDonationRepository,
			postgres.NewTransactionManager,
			auth.NewBcryptHasher,
			auth.NewJWTService,
			impl.NewAdminService,
		),
		fx.Invoke(seedAdmin),
	).Run()
}

func seedAdmin(params seedParams) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer cancel()

		input := usecase.SeedAdminInput{
			Name:     os.Getenv("ADMIN_NAME"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		}

		admin, err := params.Admin.SeedAdmin(ctx, input)
		if err != nil {
			params.Logger.Error("Admin seed failed", slog.Any("error", err))
			_ = params.Shutdowner.Shutdown(fx.ExitCode(1))

			return
		}

		params.Logger.Info("Admin account ready",
			slog.Any("userID", admin.ID),
			slog.String("email", admin.Email))
		_ = params.Shutdowner.Shutdown()
	}()
}
