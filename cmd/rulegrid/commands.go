package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/rulegrid/game/config"
	"github.com/wricardo/mcp-training/rulegrid/game/engine"
	"github.com/wricardo/mcp-training/rulegrid/game/solver"
)

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// loadLevel resolves a .json path directly and anything else through the
// level directory
func loadLevel(cmd *cli.Command, ref string) (*engine.LevelConfig, error) {
	if strings.HasSuffix(ref, ".json") {
		return engine.LoadLevelConfig(ref)
	}
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(ref)
}

func levelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "list the levels in the level directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			levels, err := manager.ListConfigs()
			if err != nil {
				return err
			}
			w := out(cmd)
			for _, l := range levels {
				fmt.Fprintf(w, "%-12s %2dx%-2d %s\n", l.ConfigID, l.Width, l.Height, l.Name)
				fmt.Fprintf(w, "             %s\n", strings.Join(l.Rules, "; "))
			}
			return nil
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "replay a move sequence against a level",
		ArgsUsage: "<level> <moves>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "board", Usage: "print the board after the last move"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("play needs a level and a move string, e.g. play level_1 RRRR")
			}
			cfg, err := loadLevel(cmd, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			dirs, err := engine.ParseMoveString(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			game, err := engine.NewEngine(cfg)
			if err != nil {
				return err
			}
			return play(out(cmd), game, dirs, cmd.Bool("board"))
		},
	}
}

// play applies every move and prints one line per move followed by the
// folded outcome
func play(w io.Writer, game *engine.GameEngine, dirs []engine.Direction, board bool) error {
	folded := engine.Ongoing
	firstWin := 0
	for i, dir := range dirs {
		report, err := game.Move(dir.String())
		if err != nil {
			return err
		}
		folded = engine.Combine(folded, report.Outcome)
		if report.Outcome == engine.Win && firstWin == 0 {
			firstWin = i + 1
		}

		fmt.Fprintf(w, "%3d. %-5s", i+1, dir)
		for _, m := range report.Movers {
			mark := "blocked"
			if m.Moved {
				mark = fmt.Sprintf("→(%d,%d)", m.To.X, m.To.Y)
			}
			fmt.Fprintf(w, "  %s (%d,%d)%s", m.Marker, m.From.X, m.From.Y, mark)
			if len(m.Pushed) > 0 {
				fmt.Fprintf(w, " pushed %d", len(m.Pushed))
			}
		}
		if report.Outcome != engine.Ongoing {
			fmt.Fprintf(w, "  %s", report.Outcome)
		}
		fmt.Fprintln(w)
	}

	if board {
		fmt.Fprintln(w)
		for _, row := range game.GetState().Rows {
			fmt.Fprintln(w, row)
		}
	}

	fmt.Fprintf(w, "\nOutcome: %s", folded)
	if firstWin > 0 {
		fmt.Fprintf(w, " (first win on move %d)", firstWin)
	}
	fmt.Fprintln(w)
	return nil
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "find the shortest winning sequence for a level",
		ArgsUsage: "<level>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-depth", Value: solver.DefaultMaxDepth, Usage: "longest sequence to consider"},
			&cli.IntFlag{Name: "max-states", Value: solver.DefaultMaxStates, Usage: "give up after this many distinct boards"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "give up after this long"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadLevel(cmd, cmd.Args().First())
			if err != nil {
				return err
			}
			level, err := engine.BuildLevel(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			result, err := solver.Solve(ctx, level, solver.Options{
				MaxDepth:  cmd.Int("max-depth"),
				MaxStates: cmd.Int("max-states"),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}

			w := out(cmd)
			fmt.Fprintf(w, "%s: %d moves, %d states explored\n", cfg.Name, len(result.Moves), result.Explored)
			fmt.Fprintln(w, compactPath(result.Moves))
			return nil
		},
	}
}

func compactPath(dirs []engine.Direction) string {
	var b strings.Builder
	for _, d := range dirs {
		b.WriteString(strings.ToUpper(d.String()[:1]))
	}
	return b.String()
}

// ValidationResult captures the outcome of validating a single level file.
// Info lines are only filled for valid files.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// validateLevel loads a level file and checks that it builds, that
// something is You and something is Win, and that the solver can win it
func validateLevel(ctx context.Context, path string, opts solver.Options) ValidationResult {
	result := ValidationResult{File: path, Valid: true}
	fail := func(format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	cfg, err := engine.LoadLevelConfig(path)
	if err != nil {
		fail("%v", err)
		return result
	}
	level, err := engine.BuildLevel(cfg)
	if err != nil {
		fail("%v", err)
		return result
	}

	rules := level.Rules()
	if len(rules.EntitiesWith(engine.PropertyYou)) == 0 {
		fail("no rule makes anything YOU")
	}
	if len(rules.EntitiesWith(engine.PropertyWin)) == 0 {
		fail("no rule makes anything WIN")
	}
	if !result.Valid {
		return result
	}

	solved, err := solver.Solve(ctx, level, opts)
	switch {
	case errors.Is(err, solver.ErrNoSolution), errors.Is(err, solver.ErrStateLimit):
		fail("not winnable: %v", err)
		return result
	case err != nil:
		fail("solver: %v", err)
		return result
	}

	result.Info = append(result.Info,
		fmt.Sprintf("Name: %s", cfg.Name),
		fmt.Sprintf("Grid: %dx%d", cfg.Width, cfg.Height),
		fmt.Sprintf("Rules: %d", len(rules.Rules())),
		fmt.Sprintf("Shortest win: %d moves (%s)", len(solved.Moves), compactPath(solved.Moves)),
	)
	return result
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check that level files build and can be won",
		ArgsUsage: "<file.json>...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-depth", Value: solver.DefaultMaxDepth},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return fmt.Errorf("validate needs at least one level file")
			}

			w := out(cmd)
			invalid := 0
			for _, file := range files {
				result := validateLevel(ctx, file, solver.Options{MaxDepth: cmd.Int("max-depth")})
				fmt.Fprintf(w, "%s %s\n", strings.Repeat("=", 20), result.File)
				if result.Valid {
					fmt.Fprintln(w, "VALID")
					for _, info := range result.Info {
						fmt.Fprintln(w, "  "+info)
					}
					continue
				}
				invalid++
				fmt.Fprintln(w, "INVALID")
				for _, e := range result.Errors {
					fmt.Fprintln(w, "  "+e)
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d levels have errors", invalid, len(files))
			}
			fmt.Fprintln(w, "All levels are valid")
			return nil
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print marker counts, rules and distances for a level",
		ArgsUsage: "<level>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadLevel(cmd, cmd.Args().First())
			if err != nil {
				return err
			}
			level, err := engine.BuildLevel(cfg)
			if err != nil {
				return err
			}
			analyze(out(cmd), cfg, level)
			return nil
		},
	}
}

// analyze prints quick heuristics: what is on the board, which rules are
// active and how far each You piece is from the nearest Win cell
func analyze(w io.Writer, cfg *engine.LevelConfig, level *engine.Level) {
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Grid: %d x %d\n", cfg.Width, cfg.Height)

	counts := engine.CountMarkers(level)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Markers:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %d\n", name, counts[name])
	}

	fmt.Fprintln(w, "Rules:")
	for _, rule := range level.Rules().Rules() {
		fmt.Fprintf(w, "  %s\n", rule)
	}

	movers := engine.CellsWithProperty(level, engine.PropertyYou)
	if len(movers) == 0 {
		fmt.Fprintln(w, "WARNING: nothing is YOU, the level cannot be played")
		return
	}
	for _, p := range movers {
		target, dist, ok := engine.FindNearestWin(level, p)
		if !ok {
			fmt.Fprintf(w, "YOU at (%d,%d): no WIN cell on the board\n", p.X, p.Y)
			continue
		}
		fmt.Fprintf(w, "YOU at (%d,%d): nearest WIN (%d,%d), %d steps away\n", p.X, p.Y, target.X, target.Y, dist)
	}
}
