package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/achilleasa/sdfmarch/server"
	"github.com/urfave/cli"
)

// Serve rendered frames over websockets until interrupted.
func Serve(ctx *cli.Context) error {
	setup, err := setupFromFlags(ctx)
	if err != nil {
		return err
	}

	r, err := setup.newRenderer()
	if err != nil {
		return err
	}
	defer r.Close()

	srv, err := server.New(r)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(sigCtx, ctx.String("addr"))
}
