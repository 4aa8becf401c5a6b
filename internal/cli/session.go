// Package cli implements the quotectl subcommands.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/blob"
	"github.com/smallbiznis/quotely/internal/clock"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/observability"
	"github.com/smallbiznis/quotely/internal/providers/pdf"
	"github.com/smallbiznis/quotely/internal/quotation"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Session is an open connection to the configured quotation store.
type Session struct {
	Service  domain.Service
	Currency string
	Close    func(context.Context) error
}

// Env is shared by every command.
type Env struct {
	Open    func(ctx context.Context) (*Session, error)
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

func NewEnv() *Env {
	env := &Env{Out: os.Stdout, Err: os.Stderr}
	env.Open = func(ctx context.Context) (*Session, error) {
		return openSession(ctx, env.Verbose)
	}
	return env
}

func openSession(ctx context.Context, verbose bool) (*Session, error) {
	var (
		svc      domain.Service
		defaults *config.QuotationDefaultsHolder
	)

	opts := []fx.Option{
		config.Module,
		observability.Module,
		fx.Provide(provideSnowflake),
		clock.Module,
		blob.Module,
		pdf.Module,
		quotation.Module,
		fx.Populate(&svc, &defaults),
		fx.NopLogger,
	}
	if !verbose {
		opts = append(opts, fx.Decorate(func(*zap.Logger) *zap.Logger { return zap.NewNop() }))
	}

	app := fx.New(opts...)
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	return &Session{
		Service:  svc,
		Currency: defaults.Get().Currency,
		Close:    app.Stop,
	}, nil
}

func provideSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
