// Command rulegrid plays, solves and checks rule-grid levels from the
// terminal without a running server.
//
//	rulegrid levels
//	rulegrid play level_1 RRRRRRRR
//	rulegrid solve --max-depth 30 configs/level_2.json
//	rulegrid validate configs/*.json
//	rulegrid analyze level_3
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// Optional; CONFIG_DIR may come from .env
	_ = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "rulegrid",
		Usage: "play, solve and check rule-grid puzzle levels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory holding level JSON files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			levelsCommand(),
			playCommand(),
			solveCommand(),
			validateCommand(),
			analyzeCommand(),
		},
	}
}
