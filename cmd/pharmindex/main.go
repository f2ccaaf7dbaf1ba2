package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pharmindex/pharmindex/internal/config"
	"github.com/pharmindex/pharmindex/internal/logger"
	"github.com/pharmindex/pharmindex/internal/migration"
	"github.com/pharmindex/pharmindex/internal/server"
	"github.com/pharmindex/pharmindex/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
