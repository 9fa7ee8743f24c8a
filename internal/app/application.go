package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"modes1090/internal/decoder"
	"modes1090/internal/icaocache"
	"modes1090/internal/logging"
	"modes1090/internal/modes"
	"modes1090/internal/report"
	"modes1090/internal/sbs"
	"modes1090/internal/source"
)

const (
	messageBuffer = 1024
	reportBuffer  = 1024
)

// Application wires a source, the decoder and the outputs together
type Application struct {
	config      Config
	logger      *logrus.Logger
	stdout      io.Writer
	source      source.Source
	input       io.Closer
	seen        *icaocache.Cache
	decoder     *decoder.Decoder
	outputs     []report.Encoder
	logRotator  *logging.Rotator
	publisher   publisher
	written     atomic.Uint64
	unconfirmed atomic.Uint64
	publishErr  atomic.Uint64
}

// NewLogger builds the application logger: debug level when verbose, JSON
// output on request, always on stderr so stdout stays clean for reports
func NewLogger(config Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	if config.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	return &Application{
		config: config,
		logger: NewLogger(config),
		stdout: os.Stdout,
	}
}

// Start runs the application until the input ends or SIGINT/SIGTERM
func (app *Application) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}

// Run initializes the components and runs the pipeline until the input
// ends or ctx is cancelled
func (app *Application) Run(ctx context.Context) error {
	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting Mode-S decoder")

	if err := app.initializeComponents(); err != nil {
		app.shutdown()
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	defer app.shutdown()

	return app.run(ctx)
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	var err error

	app.seen = icaocache.New(app.config.CacheTTL, 0)
	app.decoder = decoder.New(app.logger, app.seen, decoder.Options{FixErrors: app.config.FixErrors})

	if app.source, err = app.newSource(); err != nil {
		return err
	}

	if !app.config.Quiet {
		enc, err := newEncoder(app.config.OutputFormat, app.stdout)
		if err != nil {
			return err
		}
		app.outputs = append(app.outputs, enc)
	}

	if app.config.LogDir != "" {
		app.logRotator, err = logging.NewRotator(app.config.LogDir, logging.DefaultPrefix, app.config.LogRotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize log rotator: %w", err)
		}
		if app.config.MaxLogDays > 0 {
			if err := app.logRotator.CleanupOldLogs(app.config.MaxLogDays); err != nil {
				app.logger.WithError(err).Warn("Failed to clean up old report files")
			}
		}

		enc, err := newEncoder(app.config.OutputFormat, app.logRotator)
		if err != nil {
			return err
		}
		app.outputs = append(app.outputs, enc)
	}

	if app.config.MQTTBroker != "" {
		pub, err := newMQTTPublisher(app.config.MQTTBroker, app.config.MQTTClientID, app.config.MQTTTopicPrefix, app.logger)
		if err != nil {
			return err
		}
		app.publisher = pub
	}

	return nil
}

func (app *Application) newSource() (source.Source, error) {
	format := source.StreamFormat(app.config.InputFormat)

	switch {
	case app.config.Connect != "":
		return source.NewTCP(app.config.Connect, format, app.logger), nil
	case app.config.SerialPort != "":
		return source.NewSerial(app.config.SerialPort, app.config.BaudRate, app.logger), nil
	case app.config.NATSURL != "":
		return source.NewNATS(app.config.NATSURL, app.config.NATSSubject, app.logger), nil
	}

	var r io.Reader = os.Stdin
	if app.config.Input != DefaultInput {
		f, err := os.Open(app.config.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		app.input = f
		r = f
	}
	return source.NewStream(r, format, app.logger)
}

func newEncoder(format string, w io.Writer) (report.Encoder, error) {
	switch format {
	case OutputSBS:
		return sbs.NewWriter(w), nil
	case OutputJSON:
		return report.NewJSONEncoder(w), nil
	case OutputMsgpack:
		return report.NewMsgpackEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// run is the pipeline: one source goroutine, Workers decode goroutines
// and one writer. Report order across workers is not preserved.
func (app *Application) run(ctx context.Context) error {
	app.logger.WithField("workers", app.config.Workers).Info("All components started successfully")

	g, ctx := errgroup.WithContext(ctx)

	// background tasks stop once the writer has drained
	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	msgs := make(chan source.Message, messageBuffer)
	reports := make(chan *report.Report, reportBuffer)

	g.Go(func() error {
		defer close(msgs)
		if err := app.source.Run(ctx, msgs); err != nil {
			return fmt.Errorf("input failed: %w", err)
		}
		app.logger.Info("Input finished")
		return nil
	})

	var workers sync.WaitGroup
	for i := 0; i < app.config.Workers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			app.decodeLoop(ctx, msgs, reports)
			return nil
		})
	}
	g.Go(func() error {
		workers.Wait()
		close(reports)
		return nil
	})

	g.Go(func() error {
		defer stopBackground()
		for r := range reports {
			app.emit(r)
		}
		return nil
	})

	if app.logRotator != nil {
		g.Go(func() error {
			app.logRotator.Start(bgCtx)
			return nil
		})
	}

	if app.config.StatsInterval > 0 {
		g.Go(func() error {
			app.reportStatistics(bgCtx)
			return nil
		})
	}

	err := g.Wait()
	app.logStatistics("Final statistics")
	return err
}

// decodeLoop turns messages into reports until msgs closes or ctx ends
func (app *Application) decodeLoop(ctx context.Context, msgs <-chan source.Message, reports chan<- *report.Report) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			r, err := app.decoder.DecodeString(msg.Hex, msg.Received)
			if err != nil {
				app.logger.WithError(err).WithField("raw", msg.Hex).Debug("Dropping message")
				continue
			}
			r.Signal = msg.Signal

			select {
			case reports <- r:
			case <-ctx.Done():
				return
			}
		}
	}
}

// emit hands one report to every output. Only the writer goroutine calls it.
func (app *Application) emit(r *report.Report) {
	if !app.accept(r) {
		app.unconfirmed.Add(1)
		return
	}

	for _, out := range app.outputs {
		if err := out.Encode(r); err != nil {
			app.logger.WithError(err).Debug("Failed to write report")
		}
	}
	app.written.Add(1)

	if app.publisher != nil {
		if err := app.publisher.Publish(r); err != nil {
			app.publishErr.Add(1)
			app.logger.WithError(err).Debug("Failed to publish report")
		}
	}
}

// accept drops reports whose address was recovered from the parity field
// and never seen in a frame with a checked CRC: those are usually
// corrupted replies naming no real aircraft
func (app *Application) accept(r *report.Report) bool {
	if app.config.ShowUnconfirmed || app.seen == nil {
		return true
	}
	return !modes.HasAddressParity(modes.DownlinkFormat(r.DF)) || r.ICAOConfirmed
}

// reportStatistics logs the decoder counters periodically
func (app *Application) reportStatistics(ctx context.Context) {
	ticker := time.NewTicker(app.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.logStatistics("Decoder statistics")
		}
	}
}

func (app *Application) logStatistics(msg string) {
	if app.decoder == nil {
		return
	}
	stats := app.decoder.Stats()
	tracked := 0
	if app.seen != nil {
		tracked = app.seen.Len()
	}
	app.logger.WithFields(logrus.Fields{
		"messages":       stats.Messages,
		"malformed":      stats.Malformed,
		"bad_crc":        stats.BadCRC,
		"corrected":      stats.Corrected,
		"confirmed":      stats.Confirmed,
		"per_df":         stats.PerDF,
		"written":        app.written.Load(),
		"unconfirmed":    app.unconfirmed.Load(),
		"publish_errors": app.publishErr.Load(),
		"addresses":      tracked,
	}).Info(msg)
}

// shutdown releases everything initializeComponents opened
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")

	if app.publisher != nil {
		app.publisher.Close()
	}
	if app.logRotator != nil {
		if err := app.logRotator.Close(); err != nil {
			app.logger.WithError(err).Error("Failed to close log rotator")
		}
	}
	if app.input != nil {
		app.input.Close()
	}

	app.logger.Info("Shutdown completed")
}
