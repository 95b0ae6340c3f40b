package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/sdfmarch/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setup, err := setupFromFlags(ctx)
	if err != nil {
		return err
	}

	r, err := setup.newRenderer()
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame (%s)", setup.opts.FrameW, setup.opts.FrameH, setup.camera)
	fb, err := r.Render(context.Background())
	if err != nil {
		return err
	}

	// Export PNG
	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = fb.WritePNG(f); err != nil {
		return fmt.Errorf("could not encode png file: %w", err)
	}
	logger.Noticef("wrote frame to %s in %s", imgFile, time.Since(start))

	// Display stats
	displayFrameStats(r.Stats())

	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	logger.Noticef("frame statistics\n%s", formatFrameStats(stats))
}

func formatFrameStats(stats renderer.FrameStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Rays", "Steps/ray", "Render time"})
	for _, stat := range stats.Tracers {
		stepsPerRay := 0.0
		if stat.Rays != 0 {
			stepsPerRay = float64(stat.MarchSteps) / float64(stat.Rays)
		}
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%.1f", stepsPerRay),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{
		"",
		"",
		"TOTAL",
		fmt.Sprintf("%d", stats.Rays),
		fmt.Sprintf("%.1f", stats.StepsPerRay()),
		stats.RenderTime.String(),
	})

	table.Render()
	fmt.Fprintf(&buf, "object hits: %d, floor hits: %d, sky: %d\n", stats.ObjectHits, stats.FloorHits, stats.SkyHits)
	return buf.String()
}
