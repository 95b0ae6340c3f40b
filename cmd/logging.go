package cmd

import (
	"fmt"
	"os"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/urfave/cli"
)

var logger = log.New("sdfmarch")

// Set when --log-file redirects the log output.
var logFile *os.File

// Global flags controlling log verbosity and output.
func LoggingFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, notice, warning or error); overrides -v and -vv",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "append log output to this file instead of stdout",
		},
	}
}

// SetupLogging applies the global logging flags. It runs once before any
// command.
func SetupLogging(ctx *cli.Context) error {
	level := log.Notice
	switch {
	case ctx.String("log-level") != "":
		var err error
		if level, err = log.ParseLevel(ctx.String("log-level")); err != nil {
			return err
		}
	case ctx.Bool("vv"):
		level = log.Debug
	case ctx.Bool("v"):
		level = log.Info
	}

	if pathToFile := ctx.String("log-file"); pathToFile != "" {
		f, err := os.OpenFile(pathToFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		log.SetSink(f)
		logFile = f
	}

	log.SetLevel(level)
	return nil
}

// CloseLogging restores stdout logging and closes the log file, if any.
func CloseLogging(_ *cli.Context) error {
	if logFile == nil {
		return nil
	}
	log.SetSink(os.Stdout)
	err := logFile.Close()
	logFile = nil
	return err
}
