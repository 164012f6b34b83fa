package bootstrap

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
	domain "github.com/mohammadpnp/user-provisioning/internal/domain/user"
	"github.com/mohammadpnp/user-provisioning/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/user-provisioning/internal/interfaces/http/echo"
)

// NewHTTPServer builds the sandbox user-management API.
func NewHTTPServer(repo domain.UserRepository) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("1M"))

	userHandler := httpecho.NewUserHandler(app.NewCreateUser(repo), app.NewGetUserByID(repo))
	httpecho.RegisterRoutes(server, userHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}

// OpenRepository returns a postgres-backed repository when databaseURL is set
// and an in-memory one otherwise. The returned func releases the connection.
func OpenRepository(ctx context.Context, databaseURL string) (domain.UserRepository, func() error, error) {
	if databaseURL == "" {
		return repository.NewMemoryUserRepository(), func() error { return nil }, nil
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}

	repo := repository.NewUserRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	return repo, sqlDB.Close, nil
}
