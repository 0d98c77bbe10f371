package bootstrap

import (
	"tour-checkout/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module wires the HTTP API.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	ClockModule,
	DBModule,
	JWTModule,
	StoreModule,
	components.PersistenceModule,
	components.ClientModule,
	components.UseCaseModule,
	components.HandlerModule,
)

// WorkerModule wires the background jobs.
var WorkerModule = fx.Options(
	ConfigModule,
	LoggerModule,
	ClockModule,
	DBModule,
	KafkaModule,
	components.PersistenceModule,
	components.JobsModule,
)
