// psycore is the operator CLI around the construct engine: one-shot text
// analysis, tier readiness reports, fixture replay, and an interactive
// session REPL over a persistent profile database.
package main

// #region imports
import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielpatrickdp/psycore/internal/gating"
	"github.com/danielpatrickdp/psycore/internal/replay"
	"github.com/danielpatrickdp/psycore/internal/session"
	"github.com/danielpatrickdp/psycore/internal/store"
)

// #endregion

// #region root

var (
	flagDB      string
	flagUser    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "psycore",
	Short:         "Rule-based psychological construct engine with depth gating",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite profile database (empty = in-memory only)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	analyzeCmd.Flags().StringVar(&flagUser, "user", "cli", "user id for tracker state")
	sessionCmd.Flags().StringVar(&flagUser, "user", "cli", "user id for tracker state")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(readinessCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sessionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger; debug level with -v.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// newEngine wires the engine with the optional profile database.
func newEngine() (*session.Engine, func(), error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	var db *store.Store
	if flagDB != "" {
		db, err = store.Open(flagDB)
		if err != nil {
			return nil, nil, err
		}
	}

	engine := session.NewEngine(session.Config{Logger: logger, Store: db})
	cleanup := func() {
		_ = logger.Sync()
		if db != nil {
			_ = db.Close()
		}
	}
	return engine, cleanup, nil
}

// #endregion

// #region analyze

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Run the full pipeline over one message and print the snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textArg(args)
		if err != nil {
			return err
		}

		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		if flagDB != "" {
			if err := engine.RestoreUser(flagUser); err != nil {
				return fmt.Errorf("restore user: %w", err)
			}
		}

		snap := engine.Process(flagUser, text, nil)
		return printJSON(snap)
	},
}

// textArg takes the message from the argument or stdin.
func textArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given and stdin empty")
	}
	return text, nil
}

// #endregion

// #region readiness

var readinessCmd = &cobra.Command{
	Use:   "readiness <alliance> <days>",
	Short: "Print per-tier unlock status for an alliance level and day count",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var level float64
		var days int
		if _, err := fmt.Sscanf(args[0], "%f", &level); err != nil {
			return fmt.Errorf("bad alliance %q: %w", args[0], err)
		}
		if _, err := fmt.Sscanf(args[1], "%d", &days); err != nil {
			return fmt.Errorf("bad days %q: %w", args[1], err)
		}

		gate := gating.NewGate()
		for _, r := range gate.ReadinessReport(level, days) {
			fmt.Printf("%-20s %-14s %5.0f%%\n", r.Tier, r.Status, r.Progress*100)
		}
		fmt.Printf("max depth: %s\n", gate.MaxAllowedDepth(level, days))
		return nil
	},
}

// #endregion

// #region replay

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a recorded fixture through a fresh engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := replay.LoadFixture(args[0])
		if err != nil {
			return err
		}

		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		summary := replay.Replay(engine, fixture)
		if err := printJSON(summary); err != nil {
			return err
		}
		if !summary.Passed() {
			return fmt.Errorf("replay failed: %d of %d turns", summary.Failures, summary.Turns)
		}
		return nil
	},
}

// #endregion

// #region session

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive REPL: type messages, watch findings and gate decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		if flagDB != "" {
			if err := engine.RestoreUser(flagUser); err != nil {
				return fmt.Errorf("restore user: %w", err)
			}
		}

		fmt.Println("psycore session — empty line to quit")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				break
			}

			snap := engine.Process(flagUser, line, nil)
			fmt.Printf("alliance %.2f | day %d | depth %s | intervention %s\n",
				snap.AllianceLevel, snap.DaysSinceStart, snap.MaxDepth, snap.Intervention)
			for _, f := range snap.Surfaced {
				fmt.Printf("  - %s (%.2f) %s\n", f.Category, f.Confidence, f.Evidence)
			}
		}
		return scanner.Err()
	},
}

// #endregion

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// #endregion
