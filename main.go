// tomato is a terminal countdown timer.
//
// Three loops share one timer: a tick loop counts down once per second, an
// input loop applies key presses, and a render loop repaints the screen and
// decides when to stop.
//
// Usage:
//
//	tomato [flags]
//
// Flags:
//
//	-minutes int     Countdown length in minutes (default: 25)
//	-config string   Path to a TOML or YAML configuration file
//	-theme string    Colour theme (default|gruvbox|nord)
//	-headless        Line mode: read keys from stdin, print status lines
//	-dump-theme      Print the selected theme as TOML and exit
//	-verbose         Enable debug logging
//	-version         Print version and exit
//
// Keys: s or space start/pause, r reset to 25 minutes, q or ctrl+c quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/tomato/pkg/app"
	"gitlab.com/tinyland/lab/tomato/pkg/config"
	"gitlab.com/tinyland/lab/tomato/pkg/engine"
	"gitlab.com/tinyland/lab/tomato/pkg/headless"
	"gitlab.com/tinyland/lab/tomato/pkg/keymap"
	"gitlab.com/tinyland/lab/tomato/pkg/state"
	"gitlab.com/tinyland/lab/tomato/pkg/terminal"
	"gitlab.com/tinyland/lab/tomato/pkg/theme"
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		minutes     = flag.Int("minutes", 0, "Countdown length in minutes (0 = config or 25)")
		configPath  = flag.String("config", "", "Path to configuration file (.toml or .yaml)")
		themeName   = flag.String("theme", "", "Colour theme ("+strings.Join(theme.Names(), "|")+")")
		runHeadless = flag.Bool("headless", false, "Read keys from stdin line by line and print status lines")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		dump        = flag.Bool("dump-theme", false, "Print the selected theme as TOML (a starting point for ui.theme_file) and exit")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tomato %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file and environment.
	if *minutes != 0 {
		cfg.Timer.Minutes = *minutes
	}
	if *themeName != "" {
		cfg.UI.Theme = *themeName
	}
	if *verbose {
		cfg.General.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	if cfg.UI.ThemeFile != "" && *themeName == "" {
		name, err := loadThemeFile(cfg.UI.ThemeFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load theme: %v\n", err)
			os.Exit(1)
		}
		cfg.UI.Theme = name
	}
	if !theme.Has(cfg.UI.Theme) {
		fmt.Fprintf(os.Stderr, "unknown theme: %s (available: %s)\n", cfg.UI.Theme, strings.Join(theme.Names(), ", "))
		os.Exit(1)
	}

	if *dump {
		if err := dumpTheme(os.Stdout, cfg.UI.Theme); err != nil {
			fmt.Fprintf(os.Stderr, "failed to dump theme: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	interactive := !*runHeadless && terminal.IsInteractive(os.Stdin, os.Stdout)

	// The full screen view owns the terminal, so logs go to a file there.
	var logOut io.Writer = os.Stderr
	if interactive {
		if err := ensureLogDir(cfg.General.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
			os.Exit(1)
		}
		logFile, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logOut = logFile
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, interactive, logger); err != nil {
		logger.Error("timer stopped", "error", err)
		fmt.Fprintf(os.Stderr, "tomato: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run builds the collaborators for the chosen mode and runs the engine.
// Terminal teardown has finished by the time it returns.
func run(ctx context.Context, cfg *config.Config, interactive bool, logger *slog.Logger) error {
	th := theme.Get(cfg.UI.Theme)
	keys := keymap.FromBindings(keymap.Bindings{
		Toggle: cfg.Keys.Toggle,
		Reset:  cfg.Keys.Reset,
		Quit:   cfg.Keys.Quit,
	})
	initial := timer.New(cfg.Timer.Minutes)
	shared := state.New(initial)

	opts := engine.DefaultOptions()
	opts.RenderInterval = cfg.UI.RenderInterval.Duration

	logger.Info("starting",
		"version", version,
		"minutes", cfg.Timer.Minutes,
		"theme", th.Name,
		"interactive", interactive,
	)

	if !interactive {
		profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
		src := headless.NewSource(os.Stdin)
		defer src.Close()
		return engine.New(engine.Config{
			Shared:  shared,
			Source:  src,
			Sink:    headless.NewSink(os.Stdout, th, profile),
			Keys:    keys,
			Logger:  logger,
			Options: opts,
		}).Run(ctx)
	}

	restore := terminal.Guard(os.Stdin, logger)
	defer restore()

	prog := app.New(app.Options{
		Theme:        th,
		Keys:         keys,
		ShowHelp:     cfg.UI.ShowHelp,
		ShowProgress: cfg.UI.ShowProgress,
		Mouse:        cfg.UI.Mouse,
		AltScreen:    true,
		Initial:      initial,
		Logger:       logger,
	})
	prog.Start()

	runErr := engine.New(engine.Config{
		Shared:  shared,
		Source:  prog,
		Sink:    prog,
		Keys:    keys,
		Logger:  logger,
		Options: opts,
	}).Run(ctx)

	closeErr := prog.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// loadThemeFile registers the theme stored at path and returns its name.
func loadThemeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	t, err := theme.LoadFromTOML(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	theme.Register(t)
	return t.Name, nil
}

// dumpTheme writes the named theme as TOML to w.
func dumpTheme(w io.Writer, name string) error {
	data, err := theme.SaveToTOML(theme.Get(name))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	return os.MkdirAll(dir, 0755)
}
