package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/todo/internal/components/todo"
	"github.com/andrasnagy-data/todo/internal/components/user"
	"github.com/andrasnagy-data/todo/internal/server"
	"github.com/andrasnagy-data/todo/internal/shared/config"
	"github.com/andrasnagy-data/todo/internal/shared/database"
)

// storage selects the repositories and health pinger for the configured driver.
// config.NewConfig has already rejected unknown drivers.
func storage(driver string) fx.Option {
	switch driver {
	case config.DriverPostgres:
		return fx.Options(
			fx.Provide(
				database.NewPgxPool,
				user.NewPostgresRepo,
				todo.NewPostgresRepo,
				func(p *pgxpool.Pool) server.Pinger { return p },
			),
			fx.Invoke(database.Migrate),
		)
	case config.DriverMemory:
		return fx.Provide(
			user.NewMemoryRepo,
			todo.NewMemoryRepo,
			func() server.Pinger { return database.MemoryPinger{} },
		)
	default:
		return fx.Provide(
			database.NewMongoClient,
			database.NewMongoDatabase,
			user.NewMongoRepo,
			todo.NewMongoRepo,
			fx.Annotate(database.NewMongoPinger, fx.As(new(server.Pinger))),
		)
	}
}
