package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/blob"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/observability"
	"github.com/smallbiznis/quotely/internal/providers/pdf"
	"github.com/smallbiznis/quotely/internal/quotation"
	"github.com/smallbiznis/quotely/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		blob.Module,

		pdf.Module,
		quotation.Module,

		server.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
