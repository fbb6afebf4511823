// sneakbit is a top-down adventure played in the terminal or over SSH.
//
// Usage:
//
//	sneakbit play            - Play the latest save
//	sneakbit menu            - Start the launcher
//	sneakbit serve           - Start SSH server for remote play
//	sneakbit worlds          - List built-in worlds and their revisions
//	sneakbit matches         - Show the arena match history
//	sneakbit mapgen <id>     - Generate a world and write its level file
//	sneakbit config          - Print or write the effective configuration
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search ~/.sneakbit/configs, ./configs)
//	--fps <rate>        - Set frame rate
//	--seed <value>      - Set the seed of generated worlds
//	--db <path>         - Set database path (default: ~/.sneakbit/sneakbit.db)
//	--lang <code>       - Set the language of the string tables
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file (play and menu default: ~/.sneakbit/logs)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sneakbit/internal/config"
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/engine"

	// Import worlds to register them
	_ "github.com/vovakirdan/sneakbit/internal/worlds"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLang     string
	flagLogLevel string
	flagLogFile  string

	appConfig config.Config
	logger    = log.Default()
	logFile   io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sneakbit",
	Short: "Sneakbit - a top-down adventure in your terminal",
	Long: `Sneakbit is a top-down adventure with hot-seat PvP arenas, played in
the terminal or over SSH.

Available commands:
  play     - Play the latest save directly
  menu     - Interactive launcher
  serve    - Start SSH server for remote play
  worlds   - List built-in worlds
  matches  - Arena match history
  mapgen   - Generate a world level file
  config   - Show the effective configuration

Examples:
  sneakbit play
  sneakbit play --creative
  sneakbit menu
  sneakbit serve --ssh :2222
  sneakbit matches --profile alice`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logFile != nil {
			logFile.Close() //nolint:errcheck // Nothing left to log to
		}
	},
}

func init() {
	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Path to a sneakbit.yaml configuration file")
	flags.IntVar(&flagFPS, "fps", 30, "Frame rate (frames per second)")
	flags.Int64Var(&flagSeed, "seed", 1, "Seed of generated worlds")
	flags.StringVar(&flagDBPath, "db", "~/.sneakbit/sneakbit.db", "Path to the save and match database")
	flags.StringVar(&flagLang, "lang", "en", "Language of the string tables")
	flags.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(worldsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(mapgenCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration, applies the flags the user set on top of
// it and creates the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, src, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Client.FPS = flagFPS
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("lang") {
		cfg.Engine.Language = flagLang
	}
	if flags.Changed("log-file") {
		cfg.Client.LogFile = flagLogFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sneakbit",
		Level:           level,
	})
	if path := config.ExpandHome(cfg.Client.LogFile); path != "" {
		f, err := openLogFile(path)
		if err != nil {
			return err
		}
		logger.SetOutput(f)
		logFile = f
	}
	logger.Debug("config loaded", "source", src)
	return nil
}

// defaultLogFile receives the logs of full screen programs when no log file
// is configured.
const defaultLogFile = "~/.sneakbit/logs/sneakbit.log"

// quietLogger stops logging to the terminal a full screen program draws on.
// Logs go to defaultLogFile instead, or nowhere if it cannot be opened.
func quietLogger() {
	if logFile != nil {
		return
	}
	f, err := openLogFile(config.ExpandHome(defaultLogFile))
	if err != nil {
		logger.SetOutput(io.Discard)
		return
	}
	logger.SetOutput(f)
	logFile = f
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// engineConfig converts the engine section of the configuration.
func engineConfig(c config.EngineConfig) engine.Config {
	return engine.Config{
		BaseEntitySpeed: c.BaseSpeed * core.TileSize,
		Language:        c.Language,
		LevelsPath:      config.ExpandHome(c.LevelsPath),
		SpeciesPath:     config.ExpandHome(c.SpeciesPath),
		LangPath:        config.ExpandHome(c.LangPath),
		Seed:            c.Seed,
		Mobile:          c.Mobile,
		HotSeat:         c.HotSeat,
		Profile:         c.Profile,
	}
}
