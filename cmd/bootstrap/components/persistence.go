package components

import (
	"tour-checkout/internal/infra/repository"
	"tour-checkout/internal/infra/sqlstore"
	"tour-checkout/internal/infra/uow"
	"tour-checkout/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork (outcome ledger + outbox)
		uow.NewPostgresUoW,
		// Idempotency
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.IdempotencyQueries)),
		),
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
			fx.As(new(commands.ExpiredKeyPurger)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlstore.Queries {
	return sqlstore.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlstore.DBTX {
	return pool
}
