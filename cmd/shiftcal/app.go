package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/warp/shift-calendar/config"
	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/ocr"
	"github.com/warp/shift-calendar/pipeline"
	"github.com/warp/shift-calendar/schedule"
	"github.com/warp/shift-calendar/shift"
	"github.com/warp/shift-calendar/store/memory"
	"github.com/warp/shift-calendar/store/sqlite"
)

// app holds the wired components shared by serve and scan.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	calendar *shift.Calendar
	pipeline *pipeline.Pipeline
	closers  []io.Closer
}

func loadConfig(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.NewLogger(w), nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	store, err := newStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	a.calendar = shift.NewCalendar(store,
		shift.WithHourlyWage(cfg.HourlyWage()),
		shift.WithLogger(logger.With("component", "calendar")),
	)

	recognizer, err := newRecognizer(ctx, cfg.OCR, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := recognizer.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	pairing, err := schedule.ParsePairing(cfg.Schedule.Pairing)
	if err != nil {
		a.Close()
		return nil, err
	}
	extractor := schedule.NewExtractor(
		schedule.WithLineThreshold(cfg.OCR.LineThreshold),
		schedule.WithPairing(pairing),
		schedule.WithLogger(logger.With("component", "extractor")),
	)

	opts := []pipeline.Option{
		pipeline.WithTimeout(cfg.OCR.TimeoutDuration()),
		pipeline.WithLogger(logger.With("component", "pipeline")),
	}
	if cfg.OCR.Provider == config.OCRJSON {
		// Uploads are OCR word lists, not images.
		opts = append(opts, pipeline.WithImageValidator(nil))
	}
	a.pipeline = pipeline.New(recognizer, extractor, a.calendar, opts...)

	logger.Info("calendar ready",
		"store", cfg.Store.Driver, "ocr", cfg.OCR.Provider, "pairing", pairing,
		"hourly_wage", cfg.HourlyWage().String())
	return a, nil
}

func newStore(cfg config.StoreConfig) (shift.TxStore, error) {
	switch cfg.Driver {
	case config.StoreSQLite:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil
	case config.StoreMemory:
		return memory.NewTxMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

var errNoRecognizer = fmt.Errorf("%w: no recognizer configured", generic.ErrOCRFailure)

func newRecognizer(ctx context.Context, cfg config.OCRConfig, logger *slog.Logger) (ocr.Recognizer, error) {
	switch cfg.Provider {
	case config.OCRGemini:
		return ocr.NewGeminiRecognizer(ctx, cfg.APIKey, cfg.Model, logger.With("component", "ocr"))
	case config.OCRJSON:
		return ocr.JSONRecognizer{}, nil
	case config.OCRNone:
		return ocr.RecognizerFunc(func(context.Context, []byte) ([]ocr.Word, error) {
			return nil, errNoRecognizer
		}), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.Provider)
	}
}

// Close stops the pipeline and releases the store and recognizer.
func (a *app) Close() error {
	if a.pipeline != nil {
		a.pipeline.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}
