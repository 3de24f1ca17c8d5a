package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// This variable is set at build time using -ldflags parameters:
//
// go build -ldflags "-X main.VERSION=v1.0.0" ./cmd/jsonpatch
var VERSION string

var (
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Value: logrus.InfoLevel.String(),
	}
)

// initCli sets up the logger with the requested log level before any command
// runs.
func initCli(cliContext *cli.Context) error {
	logLevel := cliContext.String(logLevelFlag.Name)
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	logging.SetGlobalLogLevel(level)
	return nil
}

func getProjectLogger() *logrus.Entry {
	return logging.GetLogger("").WithField("name", "jsonpatch")
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "jsonpatch"
	app.Usage = "Apply RFC 6902 JSON Patch documents to JSON and YAML files."
	app.Version = VERSION
	app.Before = initCli
	app.Flags = []cli.Flag{
		logLevelFlag,
	}
	app.Commands = []cli.Command{
		ApplyCommand(),
		ValidateCommand(),
	}
	return app
}

// main should only setup the CLI and report errors.
func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
