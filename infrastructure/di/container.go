package di

import (
	"go.uber.org/zap"

	cmdbus "github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/ports"
	querybus "github.com/Xazratbek/storybridge-net/application/queries/bus"
	"github.com/Xazratbek/storybridge-net/infrastructure/config"
	"github.com/Xazratbek/storybridge-net/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	MemoryRepo ports.MemoryRepository
	MediaStore ports.MediaStore
	CommandBus *cmdbus.CommandBus
	QueryBus   *querybus.QueryBus
	Router     *rest.Router
}
