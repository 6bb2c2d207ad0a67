package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/cosmo/internal/app"
	"github.com/coreman2200/cosmo/internal/config"
	"github.com/coreman2200/cosmo/internal/control"
	diag "github.com/coreman2200/cosmo/internal/diagnostics"
	"github.com/coreman2200/cosmo/internal/driver/fake"
	"github.com/coreman2200/cosmo/internal/layout"
	"github.com/coreman2200/cosmo/internal/led"
	"github.com/coreman2200/cosmo/internal/render"
	"github.com/coreman2200/cosmo/internal/term"
	"github.com/coreman2200/cosmo/internal/tests"
	"github.com/coreman2200/cosmo/internal/ws"
)

func main() {
	def := config.Default()
	// ---- Flags (config file overrides them) ----
	var (
		scene      = flag.String("scene", "", "scene file (or first argument)")
		fps        = flag.Float64("fps", def.FPS, "target frames per second")
		width      = flag.Int("w", def.Width, "output columns")
		height     = flag.Int("h", def.Height, "output rows")
		duration   = flag.Float64("duration", def.Duration, "simulated run length")
		workers    = flag.Int("workers", def.Workers, "row-parallel render goroutines")
		steer      = flag.Float64("steer", def.SteerDeg, "camera turn rate, degrees per time unit")
		shadows    = flag.Bool("shadows", false, "cast shadow rays")
		bounds     = flag.Bool("bounds", false, "cull objects by bounding box")
		debug      = flag.Bool("debug", false, "unit time step, no pacing")
		sinks      = flag.String("sink", def.Sink, "comma separated outputs: term | ansi | ws | led | log")
		status     = flag.Bool("status", true, "print a pacing line under the frame")
		addr       = flag.String("addr", def.Server.Addr, "HTTP listen address for the ws sink")
		spiDev     = flag.String("spi", "", "SPI port for the led sink (empty = first)")
		ledCols    = flag.Int("led-cols", 0, "LED matrix columns (0 = -w)")
		ledRows    = flag.Int("led-rows", 0, "LED matrix rows (0 = -h)")
		brightness = flag.Float64("brightness", def.LED.Brightness, "LED brightness 0..1")
		configPath = flag.String("config", "cosmo.yaml", "path to config yaml")
		saveConfig = flag.String("save-config", "", "write the effective config to this path and exit")
		logPath    = flag.String("log", "", "write logs to this file")
		verbose    = flag.Bool("v", false, "debug logging")
		pattern    = flag.String("pattern", "", "play a wiring pattern instead of a scene: index_sweep | row_sweep | ramp")
	)
	flag.Parse()
	if *scene == "" && flag.NArg() > 0 {
		*scene = flag.Arg(0)
	}

	eff := config.Default()
	eff.Merge(&config.Config{
		Scene: *scene, FPS: *fps, Width: *width, Height: *height, Duration: *duration,
		Workers: *workers, SteerDeg: *steer,
		Shadows: config.Bool(*shadows), Bounds: config.Bool(*bounds), Debug: config.Bool(*debug),
		Sink:   *sinks,
		Server: config.Server{Addr: *addr},
		LED:    config.LED{SPIDev: *spiDev, Cols: *ledCols, Rows: *ledRows, Brightness: *brightness},
	})

	// ---- Logging ----
	outputs := strings.Split(eff.Sink, ",")
	logOut, closeLog := logWriter(*logPath, outputs)
	defer closeLog()
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOut, TimeFormat: time.Kitchen})

	// ---- Load config yaml (optional) ----
	if c, err := config.Load(*configPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		}
	} else {
		eff.Merge(c)
		outputs = strings.Split(eff.Sink, ",")
	}

	if *saveConfig != "" {
		if err := config.Save(*saveConfig, eff); err != nil {
			log.Fatal().Err(err).Str("path", *saveConfig).Msg("save config")
		}
		log.Info().Str("path", *saveConfig).Msg("config saved")
		return
	}

	if err := run(eff, outputs, options{status: *status, logToFile: *logPath != "", pattern: *pattern}); err != nil {
		log.Error().Err(err).Msg("cosmo failed")
		closeLog()
		os.Exit(1)
	}
}

// logWriter keeps log lines off the screen while a full-screen sink owns it.
func logWriter(path string, outputs []string) (io.Writer, func()) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		return f, func() { _ = f.Close() }
	}
	for _, o := range outputs {
		switch strings.TrimSpace(o) {
		case "term":
			return io.Discard, func() {}
		case "ansi":
			return os.Stderr, func() {}
		}
	}
	return os.Stdout, func() {}
}

type options struct {
	status    bool
	logToFile bool
	pattern   string
}

func run(cfg *config.Config, outputs []string, opt options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	go func() {
		select {
		case s := <-ch:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	var (
		fanout render.Sinks
		names  []string
		hub    *ws.Hub
		tty    *term.Terminal
		strip  *led.Sink
	)
	defer func() {
		if tty != nil {
			tty.Close()
		}
		if strip != nil {
			_ = strip.Close()
		}
	}()

	ctl := control.NewShared(control.DefaultWindow)
	interval := app.RenderConfig(cfg).Interval()
	for _, o := range outputs {
		switch o = strings.TrimSpace(o); o {
		case "term":
			t, err := term.Open(opt.status)
			if err != nil {
				return err
			}
			tty = t
			fanout = append(fanout, t)
		case "ansi":
			fanout = append(fanout, term.NewANSI(os.Stdout, opt.status))
		case "ws":
			hub = ws.NewHub(ctl, interval, cfg.Width, cfg.Height)
			fanout = append(fanout, hub)
		case "led":
			l := layout.Layout{Cols: cfg.LED.Cols, Rows: cfg.LED.Rows, Serpentine: config.On(cfg.LED.Serpentine)}
			if l.Cols <= 0 {
				l.Cols = cfg.Width
			}
			if l.Rows <= 0 {
				l.Rows = cfg.Height
			}
			s, err := led.Open(led.Options{SPIDev: cfg.LED.SPIDev, SpeedHz: cfg.LED.SpeedHz, Layout: l, Brightness: cfg.LED.Brightness})
			if err != nil {
				return err
			}
			strip = s
			fanout = append(fanout, s)
		case "log":
			fanout = append(fanout, &fake.Driver{Every: int(cfg.FPS)})
		case "":
			continue
		default:
			return fmt.Errorf("unknown sink %q", o)
		}
		names = append(names, o)
	}
	if hub != nil {
		for i, k := range fanout {
			if k != render.Sink(hub) {
				fanout[i] = hub.Watch(names[i], k)
			}
		}
	}

	captured := make(chan struct{})
	if tty != nil {
		go func() {
			defer close(captured)
			tty.Capture(ctx, ctl, cancel)
		}()
	} else {
		close(captured)
	}
	defer func() {
		cancel()
		<-captured
	}()

	// ---- HTTP routes ----
	if hub != nil {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleFramesWS)
		mux.HandleFunc("/diag", hub.HandleDiagWS)
		mux.HandleFunc("/control", hub.HandleControlWS)
		mux.HandleFunc("/health", hub.HandleHealth)
		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server crashed")
				cancel()
			}
		}()
		defer srv.Close()
	}

	if opt.pattern != "" {
		kind, err := tests.ParseKind(opt.pattern)
		if err != nil {
			return err
		}
		if err := tests.Play(ctx, tests.Plan{Kind: kind}, cfg.Width, cfg.Height, interval, fanout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	core, err := app.InitCore(cfg, fanout, ctl)
	if err != nil {
		return err
	}
	stats, err := core.Player.Run(ctx)
	cancel()
	<-captured
	if tty != nil {
		tty.Close()
		tty = nil
		if !opt.logToFile {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if hub != nil {
		hub.Push(diag.RunDone(core.Player.Time(), core.Player.Frames(), stats.Load()))
	}
	log.Info().
		Float64("t", core.Player.Time()).
		Int("frames", core.Player.Frames()).
		Dur("compute", stats.TotalCompute).
		Dur("wait", stats.TotalWait).
		Float64("load_pct", stats.Load()).
		Msg("run finished")
	return nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
