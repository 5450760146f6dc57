package main

import (
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/todo/internal/components/todo"
	"github.com/andrasnagy-data/todo/internal/components/user"
	"github.com/andrasnagy-data/todo/internal/server"
	"github.com/andrasnagy-data/todo/internal/shared/config"
	"github.com/andrasnagy-data/todo/internal/shared/hasher"
	"github.com/andrasnagy-data/todo/internal/shared/logging"
	"github.com/andrasnagy-data/todo/internal/shared/token"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	fx.New(
		fx.Supply(cfg),
		fx.Provide(
			logging.NewLogger,
			hasher.NewFromConfig,
			token.NewFromConfig,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			user.NewService,
			fx.Annotate(user.NewRouter, fx.ResultTags(`name:"userRouter"`)),
			func(s *user.Service) todo.Owners { return s },
			todo.NewService,
			fx.Annotate(todo.NewRouter, fx.ResultTags(`name:"todoRouter"`)),
		),
		storage(cfg.StoreDriver),
		fx.Invoke((*server.Server).Start),
	).Run()
}
