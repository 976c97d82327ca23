// Package di assembles the chat service and the media server.
package di

import (
	"context"
	"log/slog"
	"time"

	"campusbingo/internal/chat/handler"
	"campusbingo/internal/common"
	"campusbingo/internal/config"
	"campusbingo/internal/dbmongo"
	"campusbingo/internal/dbmysql"
	"campusbingo/internal/media"

	"gorm.io/gorm"
)

type ChatApp struct {
	Config  *config.Config
	Log     *slog.Logger
	DB      *gorm.DB
	Tokens  *common.TokenManager
	Handler *handler.ChatHandler
	HTTP    *handler.HTTPHandler
}

type MediaApp struct {
	Config *config.Config
	Log    *slog.Logger
	Server *media.HTTPServer
}

// ProvideDatabase opens MySQL and closes the pool on cleanup.
func ProvideDatabase(cfg *config.Config, log *slog.Logger) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func ProvideMongo(cfg *config.Config, log *slog.Logger) (*dbmongo.MongoClient, func(), error) {
	client, err := dbmongo.NewMongoConnection(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			log.Warn("failed to disconnect MongoDB", "error", err)
		}
	}
	return client, cleanup, nil
}
