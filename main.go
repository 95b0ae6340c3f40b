package main

import (
	"os"

	"github.com/achilleasa/sdfmarch/cmd"
	"github.com/achilleasa/sdfmarch/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "sdfmarch"
	app.Usage = "render signed distance fields using sphere tracing"
	app.Version = "0.1.0"
	app.Flags = cmd.LoggingFlags()
	app.Before = cmd.SetupLogging
	app.After = cmd.CloseLogging
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to a png file",
			Description: `
Render a single frame of the distance field scene on the CPU and write it to
a png file. Frame statistics for each tracer are displayed once the frame is
complete.`,
			Flags: append(cmd.SceneFlags(),
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "interactive",
			Usage: "render an interactive view of the scene",
			Description: `
Open a window with a live view of the scene.

  W/S  move forward/back   Q/E  strafe left/right
  A/D  yaw                 2/X  pitch
  O    toggle union/intersection
  M    cycle shading modes (lit, depth, normals, steps)
  Tab  toggle frame statistics
  Esc  quit`,
			Flags:  cmd.SceneFlags(),
			Action: cmd.RenderInteractive,
		},
		{
			Name:  "serve",
			Usage: "stream rendered frames to websocket clients",
			Description: `
Serve frames over a websocket endpoint at /ws. Clients send JSON control
messages to move the camera or edit the scene and receive binary frame
messages in return. The payload codec is selected with ?codec=raw|snappy|zstd.`,
			Flags: append(cmd.SceneFlags(),
				cli.StringFlag{
					Name:  "addr",
					Value: ":8080",
					Usage: "listen address",
				},
			),
			Action: cmd.Serve,
		},
		{
			Name:  "scene",
			Usage: "display the scene described by the flags",
			Description: `
Print the distance field and shading uniforms of the scene. When --dump is
given the scene and camera are also written as a JSON scene description
that can be loaded back with --scene. Paths ending in .zst are compressed.`,
			Flags: append(cmd.SceneFlags(),
				cli.StringFlag{
					Name:  "dump",
					Usage: "write the scene description to this file",
				},
			),
			Action: cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("sdfmarch").Errorf("%v", err)
		os.Exit(1)
	}
}
