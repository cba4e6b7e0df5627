package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// defaultProfile is the config profile used when neither --profile nor
// APP_ENVIRONMENT is set.
const defaultProfile = "local"

// newCLIApp creates the CLI application. Running it without a command serves.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "quotes",
		Usage:   "HTTP API for a collection of quotations",
		Version: Version,
		Flags:   []cli.Flag{profileFlag()},
		Action:  serveAction,
		Commands: []*cli.Command{
			serveCmd(),
			versionCmd(),
		},
	}
	// Errors are printed by main; keep urfave from calling os.Exit.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	return app
}

// serveCmd creates the serve command.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server",
		Flags:  []cli.Flag{profileFlag()},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	return serve(c.Context, c.String("profile"))
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Value:   defaultProfile,
		EnvVars: []string{"APP_ENVIRONMENT"},
		Usage:   "Config profile loaded from configs/{profile}.yaml",
	}
}

// versionCmd creates the version command.
func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "version=%s commit=%s built=%s\n", Version, Commit, BuildTime)
			return err
		},
	}
}
