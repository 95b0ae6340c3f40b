package cmd

import (
	"github.com/achilleasa/sdfmarch/renderer/interactive"
	"github.com/urfave/cli"
)

// Open a window with a live view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	setup, err := setupFromFlags(ctx)
	if err != nil {
		return err
	}

	r, err := setup.newRenderer()
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Notice("controls: W/S move, Q/E strafe, A/D yaw, 2/X pitch, O toggle op, M cycle mode, Tab stats, Esc quit")
	return interactive.NewViewer(r).Run()
}
