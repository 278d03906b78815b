package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bigball/bigball/internal/arena"
	"github.com/bigball/bigball/internal/ball"
	"github.com/bigball/bigball/internal/config"
	"github.com/bigball/bigball/internal/core/event"
	coresys "github.com/bigball/bigball/internal/core/system"
	"github.com/bigball/bigball/internal/data"
	"github.com/bigball/bigball/internal/persist"
	"github.com/bigball/bigball/internal/render"
	"github.com/bigball/bigball/internal/scripting"
	"github.com/bigball/bigball/internal/system"
	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const finishedMessage = "Simulation finished."

var errPanic = errors.New("panic")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errPanic) {
			sentry.CaptureException(err)
		}
		sentry.Flush(2 * time.Second)
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	seed       int64
	render     string
	maxTicks   int
}

func parseFlags(args []string) (flags, error) {
	f := flags{configPath: "config/bigball.toml", maxTicks: -1}
	if p := os.Getenv("BIGBALL_CONFIG"); p != "" {
		f.configPath = p
	}
	fs := flag.NewFlagSet("bigball", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", f.configPath, "path to the TOML config file")
	fs.Int64Var(&f.seed, "seed", 0, "random seed (overrides config; 0 keeps it)")
	fs.StringVar(&f.render, "render", "", "render mode: text, screen or none (overrides config)")
	fs.IntVar(&f.maxTicks, "max-ticks", -1, "stop after this many ticks, 0 = until finished (overrides config)")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}

func (f flags) apply(cfg *config.Config) {
	if f.seed != 0 {
		cfg.Arena.Seed = f.seed
	}
	if f.render != "" {
		cfg.Render.Mode = f.render
	}
	if f.maxTicks >= 0 {
		cfg.Loop.MaxTicks = f.maxTicks
	}
}

// recoverRun turns a panic in run into an error so the process exits
// non-zero. The panic is reported to sentry with its stack.
func recoverRun(err *error) {
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		*err = fmt.Errorf("%w: %v", errPanic, r)
	}
}

func run(args []string, stdout io.Writer) (err error) {
	defer recoverRun(&err)

	// 1. Load config
	fl, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(fl.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fl.apply(cfg)
	if cfg.Arena.Seed == 0 {
		cfg.Arena.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Init logger and error reporting
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// 3. Build the arena
	rng := rand.New(rand.NewSource(cfg.Arena.Seed))
	ar, source, err := buildArena(cfg, rng, log)
	if err != nil {
		return err
	}
	runID := uuid.New()
	log = log.With(zap.Stringer("run", runID))
	log.Info("arena ready",
		zap.String("source", source),
		zap.Int64("seed", cfg.Arena.Seed),
		zap.Int("width", ar.Width()),
		zap.Int("height", ar.Height()),
		zap.Int("regular", ar.Count(ball.Regular)),
		zap.Int("monster", ar.Count(ball.Monster)),
		zap.Int("repellent", ar.Count(ball.Repellent)),
	)

	// 4. Systems
	bus := event.NewBus()
	stats := system.NewStatsSystem(bus)

	renderer, err := newRenderer(cfg.Render, stdout)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	rendererOpen := true
	defer func() {
		if rendererOpen {
			renderer.Close()
		}
	}()

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewSimulationSystem(ar, bus, log))
	runner.Register(system.NewRenderSystem(ar, renderer, log))

	// 5. Optional run history
	var history *system.HistorySystem
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}

		history = system.NewHistorySystem(persist.NewRunRepo(db), persist.Run{
			ID:        runID,
			Source:    source,
			Seed:      cfg.Arena.Seed,
			Width:     ar.Width(),
			Height:    ar.Height(),
			Regular:   ar.Count(ball.Regular),
			Monster:   ar.Count(ball.Monster),
			Repellent: ar.Count(ball.Repellent),
			StartedAt: time.Now(),
		}, bus, cfg.Database.FlushEvery, log)
		if err := history.Start(ctx); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		runner.Register(history)
	}

	// 6. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	interrupted := loop(ar, runner, cfg.Loop, shutdownCh, log)

	// Deliver the last tick's events before reading stats or closing history.
	runner.TickPhase(coresys.PhaseEvents, 0)

	rendererOpen = false
	if err := renderer.Close(); err != nil {
		log.Warn("close renderer", zap.Error(err))
	}
	if history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := history.Close(ctx); err != nil {
			log.Error("save run history", zap.Error(err))
		}
	}

	log.Info("run stopped", append(stats.Fields(), zap.Bool("interrupted", interrupted))...)
	if ar.IsFinished() {
		fmt.Fprintln(stdout, finishedMessage)
	}
	return nil
}

// loop advances until the arena is finished, the tick limit is reached or a
// signal arrives. It reports whether a signal stopped it.
func loop(ar *arena.Arena, runner *coresys.Runner, cfg config.LoopConfig, shutdownCh <-chan os.Signal, log *zap.Logger) bool {
	var wait <-chan time.Time
	if cfg.TickRate > 0 {
		ticker := time.NewTicker(cfg.TickRate)
		defer ticker.Stop()
		wait = ticker.C
	}

	for !ar.IsFinished() {
		runner.Tick(cfg.TickRate)
		if cfg.MaxTicks > 0 && ar.Tick() >= cfg.MaxTicks {
			log.Info("tick limit reached", zap.Int("max_ticks", cfg.MaxTicks))
			return false
		}
		if ar.IsFinished() {
			return false
		}
		if wait == nil {
			// Unpaced: only poll for a signal.
			select {
			case sig := <-shutdownCh:
				log.Info("shutdown signal received", zap.String("signal", sig.String()))
				return true
			default:
			}
			continue
		}
		select {
		case <-wait:
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return true
		}
	}
	return false
}

func buildArena(cfg *config.Config, rng *rand.Rand, log *zap.Logger) (*arena.Arena, string, error) {
	switch {
	case cfg.Scenario.Path != "":
		sc, err := data.LoadScenario(cfg.Scenario.Path)
		if err != nil {
			return nil, "", fmt.Errorf("load scenario: %w", err)
		}
		balls, err := sc.Build()
		if err != nil {
			return nil, "", fmt.Errorf("build scenario: %w", err)
		}
		ar, err := arena.NewWithBalls(sc.Width, sc.Height, balls)
		if err != nil {
			return nil, "", fmt.Errorf("scenario arena: %w", err)
		}
		log.Info("scenario loaded", zap.String("name", sc.Name), zap.Int("balls", sc.Count()))
		return ar, "scenario:" + cfg.Scenario.Path, nil

	case cfg.Scenario.Script != "":
		engine, err := scripting.NewEngine(cfg.Scenario.Script, rng, log)
		if err != nil {
			return nil, "", fmt.Errorf("lua engine: %w", err)
		}
		defer engine.Close()
		balls, err := engine.SpawnBalls(cfg.Arena.Width, cfg.Arena.Height)
		if err != nil {
			return nil, "", fmt.Errorf("lua spawn: %w", err)
		}
		ar, err := arena.NewWithBalls(cfg.Arena.Width, cfg.Arena.Height, balls)
		if err != nil {
			return nil, "", fmt.Errorf("scripted arena: %w", err)
		}
		return ar, "script:" + cfg.Scenario.Script, nil
	}

	ar, err := arena.New(cfg.Arena.Width, cfg.Arena.Height, arena.Counts{
		Regular:   cfg.Arena.Regular,
		Monster:   cfg.Arena.Monster,
		Repellent: cfg.Arena.Repellent,
	}, rng)
	if err != nil {
		return nil, "", fmt.Errorf("arena: %w", err)
	}
	return ar, "random", nil
}

func newRenderer(cfg config.RenderConfig, stdout io.Writer) (render.Renderer, error) {
	switch cfg.Mode {
	case config.RenderScreen:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		if err := screen.Init(); err != nil {
			return nil, err
		}
		return render.NewScreenRenderer(screen), nil
	case config.RenderNone:
		return render.Nop{}, nil
	}
	return render.NewTextRenderer(stdout, cfg.Clear), nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
		zapCfg.ErrorOutputPaths = []string{cfg.Output}
	}

	return zapCfg.Build()
}
