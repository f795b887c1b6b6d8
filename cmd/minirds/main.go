package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/minirds/minirds/pkg/config"
	"github.com/minirds/minirds/pkg/control"
	"github.com/minirds/minirds/pkg/generator"
	"github.com/minirds/minirds/pkg/group"
	"github.com/minirds/minirds/pkg/logger"
	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/monitor"
	"github.com/minirds/minirds/pkg/mpx"
	"github.com/minirds/minirds/pkg/notify"
	"github.com/minirds/minirds/pkg/pscroll"
	"github.com/minirds/minirds/pkg/sink/live"
	"github.com/minirds/minirds/pkg/sink/wavfile"
	"github.com/minirds/minirds/pkg/station"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// Exit codes, per spec.md's external-interfaces contract. Resampler-init
// and RDS-init have no fallible resource acquisition in this
// implementation (pkg/resample.New and pkg/group.New are pure
// constructors over in-memory state), so codes 2 and 3 are reserved but
// currently unreachable.
const (
	exitAudioInitFailure = 1
	_                    = 2 // reserved: resampler-init failure
	_                    = 3 // reserved: RDS-init failure
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validateOnly := flag.Bool("validate", false, "Validate configuration and exit")

	ps := flag.String("ps", "", "Programme Service name (over 8 glyphs scrolls)")
	rt := flag.String("rt", "", "RadioText")
	pi := flag.String("pi", "", "Programme Identification, 4 hex digits")
	pty := flag.Int("pty", -1, "Programme Type code, 0-31")
	mpxRate := flag.Int("mpx", 0, "Output sample rate in Hz")
	wait := flag.Bool("wait", false, "Wait for the first control command before generating audio")
	ctl := flag.String("ctl", "", "Named pipe / FIFO path for control commands")
	port := flag.Int("port", 0, "TCP port accepting control commands")
	rft := flag.String("rft", "", "Path to a station-logo image to load at startup")
	flag.Parse()

	if *showVersion {
		fmt.Printf("MiniRDS %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *ps, *rt, *pi, *pty, *mpxRate, *ctl, *port)

	if *validateOnly {
		fmt.Println("configuration is valid")
		os.Exit(0)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.Info("starting MiniRDS",
		logger.String("version", version),
		logger.String("build_time", buildTime))

	store := station.New()
	if err := seedStation(store, cfg.Station); err != nil {
		log.Error("invalid station configuration", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	metricsCollector := metrics.NewCollector()

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				metricsCollector,
				log.WithComponent("metrics"),
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("prometheus metrics server error", logger.Error(err))
			}
		}()
		log.Info("prometheus metrics server started",
			logger.Int("port", cfg.Metrics.Prometheus.Port),
			logger.String("path", cfg.Metrics.Prometheus.Path))
	}

	notifyPublisher := notify.New(
		notify.Config{
			Enabled:     cfg.Notify.Enabled,
			Broker:      cfg.Notify.Broker,
			TopicPrefix: cfg.Notify.TopicPrefix,
			ClientID:    cfg.Notify.ClientID,
		},
		log.WithComponent("notify"),
	)
	if err := notifyPublisher.Start(); err != nil {
		log.Error("notify publisher error", logger.Error(err))
	}

	var monitorServer *monitor.Server
	if cfg.Web.Enabled {
		monitorServer = monitor.NewServer(cfg.Web, store, metricsCollector, log.WithComponent("monitor"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := monitorServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("monitor server error", logger.Error(err))
			}
		}()
		log.Info("monitor server started",
			logger.String("host", cfg.Web.Host),
			logger.Int("port", cfg.Web.Port))
	}

	mix := mpx.New()
	mix.SetVolume(cfg.Audio.Volume)
	seq := group.New(store)

	cmds := make(chan string, 256)
	dispatcher := &control.Dispatcher{
		Store:   store,
		Mixer:   mix,
		Images:  control.FileImageLoader{},
		Log:     log.WithComponent("control"),
		Metrics: metricsCollector,
	}
	if monitorServer != nil {
		dispatcher.Monitor = monitorServer.Hub()
	}
	dispatcher.Notifier = notifyPublisher

	if *rft != "" {
		data, err := dispatcher.Images.Load(*rft)
		if err != nil {
			log.Error("failed to load RFT image", logger.String("path", *rft), logger.Error(err))
		} else if err := store.SetRFTImage(data); err != nil {
			log.Error("failed to set RFT image", logger.Error(err))
		}
	}

	if cfg.Control.PipePath != "" {
		pipe := control.NewPipeTransport(cfg.Control.PipePath, log.WithComponent("control"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			pipe.Run(ctx, func(payload string) { cmds <- payload })
		}()
		log.Info("control pipe transport started", logger.String("path", cfg.Control.PipePath))
	}

	if cfg.Control.TCPAddr != "" {
		tcp := control.NewTCPTransport(cfg.Control.TCPAddr, log.WithComponent("control"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			tcp.Run(ctx, func(payload string) { cmds <- payload })
		}()
		log.Info("control tcp transport started", logger.String("addr", cfg.Control.TCPAddr))
	}

	var scroller *pscroll.Scroller
	if cfg.Station.PSScroll != "" {
		scroller = pscroll.New(store, log.WithComponent("pscroll"))
		if err := scroller.SetText(cfg.Station.PSScroll); err != nil {
			log.Error("invalid ps_scroll text", logger.Error(err))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				scroller.Run(ctx)
			}()
		}
	}

	audioSink, closeSink, err := newSink(cfg.Audio)
	if err != nil {
		log.Error("failed to initialize audio sink", logger.Error(err))
		os.Exit(exitAudioInitFailure)
	}
	defer closeSink()

	gen := generator.New(generator.DefaultConfig(), seq, mix, audioSink, dispatcher, cmds)
	gen.SetMetrics(metricsCollector)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if *wait {
			log.Info("waiting for first control command before generating audio")
			select {
			case payload := <-cmds:
				dispatcher.Apply(payload)
			case <-ctx.Done():
				return
			}
		}
		if err := gen.Run(ctx); err != nil {
			log.Error("generator stopped with error", logger.Error(err))
		}
	}()

	log.Info("MiniRDS running",
		logger.String("pi", cfg.Station.PI),
		logger.String("ps", cfg.Station.PS),
		logger.Int("output_rate", cfg.Audio.OutputRate))

	sig := <-sigChan
	log.Info("received shutdown signal", logger.String("signal", sig.String()))

	cancel()
	gen.Stop()
	notifyPublisher.Stop()

	wg.Wait()
	log.Info("MiniRDS stopped")
}

// applyFlags overrides config fields with any CLI flags the caller
// actually set, non-empty/non-zero-sentinel values winning over
// whatever config.Load produced from defaults, file, or environment.
// A --ps longer than the PS window routes to PSScroll instead of the
// static PS field, matching the scrolling behavior spec.md leaves as
// an external caller-side policy.
func applyFlags(cfg *config.Config, ps, rt, pi string, pty, mpxRate int, ctl string, port int) {
	if ps != "" {
		if len(ps) > station.PSLength {
			cfg.Station.PSScroll = ps
		} else {
			cfg.Station.PS = ps
			cfg.Station.PSScroll = ""
		}
	}
	if rt != "" {
		cfg.Station.RT = rt
	}
	if pi != "" {
		cfg.Station.PI = pi
	}
	if pty >= 0 {
		cfg.Station.PTY = pty
	}
	if mpxRate > 0 {
		cfg.Audio.OutputRate = mpxRate
	}
	if ctl != "" {
		cfg.Control.PipePath = ctl
	}
	if port > 0 {
		cfg.Control.TCPAddr = fmt.Sprintf("127.0.0.1:%d", port)
	}
}

// seedStation pushes the configured initial PI/PS/RT/PTY into store.
// PSScroll, if set, takes over PS cycling once the generator starts;
// the static PS here is only what callers see before the first tick.
func seedStation(store *station.Store, cfg config.StationConfig) error {
	pi, err := strconv.ParseUint(cfg.PI, 16, 16)
	if err != nil {
		return fmt.Errorf("station: invalid PI %q: %w", cfg.PI, err)
	}
	store.SetPI(uint16(pi))

	if err := store.SetPS(cfg.PS); err != nil {
		return err
	}
	if err := store.SetRT(cfg.RT); err != nil {
		return err
	}
	return store.SetPTY(cfg.PTY)
}

// newSink builds the configured audio output. The returned close
// func is always safe to defer, even for a sink type with no real
// resources to release.
func newSink(cfg config.AudioConfig) (generator.Sink, func(), error) {
	switch cfg.Sink {
	case "wav":
		s, err := wavfile.New(cfg.WAVPath, cfg.OutputRate)
		if err != nil {
			return nil, nil, fmt.Errorf("wav sink: %w", err)
		}
		return s, func() { s.Close() }, nil

	default: // "live"
		s, err := live.New(cfg.OutputRate, 8192)
		if err != nil {
			return nil, nil, fmt.Errorf("live sink: %w", err)
		}
		return s, func() { s.Close() }, nil
	}
}
