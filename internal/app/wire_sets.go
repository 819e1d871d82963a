//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogging,
	NewLogger,
	NewLogLevel,
	NewLogBridge,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
	NewConfigLoader,
)

var ToolSet = wire.NewSet(
	NewRaindropClient,
	NewToolBackend,
	NewDispatcher,
	NewGateway,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	ToolSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)
