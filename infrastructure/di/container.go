package di

import (
	"net/http"

	"techtree-backend/application/commands/bus"
	querybus "techtree-backend/application/queries/bus"
	"techtree-backend/application/services"
	"techtree-backend/infrastructure/config"
	"techtree-backend/infrastructure/dataset"
	"techtree-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Dataset    *dataset.Store
	Deriver    *services.ViewDeriver
	Chat       *services.ChatService
	QueryBus   *querybus.QueryBus
	CommandBus *bus.CommandBus
	Metrics    *observability.Collector
	Handler    http.Handler
}
