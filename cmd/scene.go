package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/sdfmarch/scene/writer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display the scene that the flags describe.
func ShowSceneInfo(ctx *cli.Context) error {
	setup, err := setupFromFlags(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", formatSceneInfo(setup))

	if pathToFile := ctx.String("dump"); pathToFile != "" {
		return writer.WriteScene(pathToFile, setup.scene, setup.camera)
	}
	return nil
}

func formatSceneInfo(setup *renderSetup) string {
	sc := setup.scene

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "field: %s (%d primitives)\n", sc.Field, sc.Field.Primitives())

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Uniform", "Value"})
	table.Append([]string{"operation", sc.Operation.String()})
	table.Append([]string{"sky", formatVec(sc.SkyColor[:])})
	table.Append([]string{"ambient", formatVec(sc.Ambient[:])})
	table.Append([]string{"light0 position", formatVec(sc.Light0Position[:])})
	table.Append([]string{"light0 colour", formatVec(sc.Light0Color[:])})
	if sc.Floor != nil {
		table.Append([]string{"floor", fmt.Sprintf("normal=%s point=%s", formatVec(sc.Floor.Normal[:]), formatVec(sc.Floor.Point[:]))})
	} else {
		table.Append([]string{"floor", "disabled"})
	}
	table.Append([]string{"camera", setup.camera.String()})
	table.Append([]string{"frame", fmt.Sprintf("%dx%d", setup.opts.FrameW, setup.opts.FrameH)})
	table.Append([]string{"mode", setup.opts.Mode.String()})
	table.Append([]string{"steps", fmt.Sprintf("%d", setup.opts.Params.Steps)})
	table.Append([]string{"epsilon", fmt.Sprintf("%g", setup.opts.Params.Epsilon)})
	table.Render()

	return buf.String()
}
