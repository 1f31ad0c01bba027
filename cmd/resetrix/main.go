package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/weehong/resetrix-invoice/internal/config"
	"github.com/weehong/resetrix-invoice/internal/observability"
	"github.com/weehong/resetrix-invoice/internal/server"
	"github.com/weehong/resetrix-invoice/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
