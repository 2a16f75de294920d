package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/menagerie/components"
	"github.com/pthm-cable/menagerie/config"
	"github.com/pthm-cable/menagerie/game"
	"github.com/pthm-cable/menagerie/shell"
	"github.com/pthm-cable/menagerie/systems"
	"github.com/pthm-cable/menagerie/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without the interactive shell")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	slogEvents := flag.Bool("slog-events", false, "Headless: emit event lines as structured logs")

	flag.Parse()

	// Set up slog (JSON to stderr, stdout belongs to the event stream)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if err := cfg.ApplyEnv(); err != nil {
		slog.Error("failed to apply environment", "error", err)
		os.Exit(1)
	}
	if *logStats {
		cfg.Telemetry.LogStats = true
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	var buf *shell.LogBuffer
	var sink components.Logger
	switch {
	case !*headless:
		buf = shell.NewLogBuffer(cfg.Shell.LogBufferSize, os.Stdout)
		sink = buf
	case *slogEvents:
		sink = game.NewSlogLogger(logger)
	default:
		sink = game.NewWriterLogger(os.Stdout)
	}

	world, err := game.NewWorld(cfg, game.Options{
		Logger: sink,
		Rand:   systems.NewRand(),
		Output: output,
	})
	if err != nil {
		slog.Error("failed to create world", "error", err)
		os.Exit(1)
	}
	if err := world.SeedInitial(cfg.Population.Initial); err != nil {
		slog.Error("failed to seed population", "error", err)
		os.Exit(1)
	}

	if !*headless {
		sh := shell.New(world, cfg.Shell, buf)
		if err := sh.Run(os.Stdin); err != nil {
			slog.Error("shell input failed", "error", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("starting headless simulation",
		"max_ticks", *maxTicks,
		"population", world.Size(),
		"output_dir", output.Dir(),
	)

	for {
		out := world.RunOneTick()
		if out.Skipped && world.Size() < 2 {
			slog.Info("population too small to interact", "tick", world.Tick(), "size", world.Size())
			return
		}

		if *maxTicks > 0 && int(world.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", world.Tick())
			return
		}
	}
}
