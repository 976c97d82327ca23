//go:build wireinject
// +build wireinject

package di

import (
	"campusbingo/internal/chat/handler"
	"campusbingo/internal/chat/repository"
	"campusbingo/internal/chat/service"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmongo"
	"campusbingo/internal/listing"
	"campusbingo/internal/media"
	"campusbingo/internal/notice"
	"campusbingo/internal/user"

	"github.com/google/wire"
)

var chatSet = wire.NewSet(
	repository.NewChatRepository,
	listing.NewStore,
	user.NewUserRepository,
	service.NewRegistry,
	service.NewMessageLog,
	service.NewInboxAggregator,
	service.NewChatService,
	notice.NewTranslator,
	common.NewTokenManager,
	handler.NewChatHandler,
	handler.NewHTTPHandler,
)

func InitializeChatService(cfg *config.Config) (*ChatApp, func(), error) {
	wire.Build(
		common.NewLogger,
		ProvideDatabase,
		chatSet,
		wire.Struct(new(ChatApp), "*"),
	)
	return nil, nil, nil
}

func InitializeMediaServer(cfg *config.Config) (*MediaApp, func(), error) {
	wire.Build(
		common.NewLogger,
		ProvideMongo,
		dbmongo.NewMediaStorage,
		wire.Bind(new(dbmongo.ImageSource), new(*dbmongo.MediaStorage)),
		media.NewHTTPServer,
		wire.Struct(new(MediaApp), "*"),
	)
	return nil, nil, nil
}
