// Command aws2bufr converts PROMICE/GC-Net hourly AWS observation files
// into WMO BUFR messages, one message per observation row.
//
// Input files are passed as arguments; which files to convert is the
// caller's concern (cron job, shell glob, upstream fetcher). Each input
// file produces one .bufr output file in the configured output directory.
//
// Usage:
//
//	aws2bufr -config config.yaml QAS_L_hour_v03.txt [more files...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/promice/aws2bufr/internal/adapter/bufrfile"
	"github.com/promice/aws2bufr/internal/adapter/eccodes"
	"github.com/promice/aws2bufr/internal/adapter/httpadapter"
	kafkaadapter "github.com/promice/aws2bufr/internal/adapter/kafka"
	"github.com/promice/aws2bufr/internal/bufr"
	"github.com/promice/aws2bufr/internal/config"
	"github.com/promice/aws2bufr/internal/domain"
	"github.com/promice/aws2bufr/internal/journal"
	"github.com/promice/aws2bufr/internal/lookup"
	"github.com/promice/aws2bufr/internal/observability"
	"github.com/promice/aws2bufr/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default $CONFIG_PATH or config.yaml)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: aws2bufr -config config.yaml <input file> [more files...]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), logger, metrics); err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, inputs []string, logger *slog.Logger, metrics *observability.Metrics) error {
	table, err := lookup.Load(cfg.LookupTablePath)
	if err != nil {
		return err
	}
	logger.Info("lookup table loaded", "path", cfg.LookupTablePath, "entries", table.Len())

	template, err := bufr.TemplateByID(cfg.TemplateID)
	if err != nil {
		return err
	}

	transformer := pipeline.NewTransformer(
		domain.Normalizer{StationID: cfg.Station.ID, Sentinel: cfg.Sentinel},
		domain.NewResolver(table, logger),
		bufr.NewAssembler(template, cfg.Station.AveragingPeriodMinutes),
		eccodes.New(cfg.Codec.Binary, cfg.Codec.Timeout),
		cfg.Header(),
	)
	p := pipeline.New(transformer, logger, metrics)

	var kafkaSink *kafkaadapter.Writer
	if cfg.Kafka.Enabled {
		kafkaSink = kafkaadapter.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		logger.Info("kafka publishing enabled", "topic", cfg.Kafka.Topic)
	}

	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		jnl, err = journal.Open(cfg.Journal.Path, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := jnl.Close(); err != nil {
				logger.Error("journal close error", "error", err)
			}
		}()
	}

	if cfg.HTTP.Enabled {
		srv := httpadapter.NewServer(cfg.HTTP.Address, p, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// One file, one output, one summary. A failed file does not stop the
	// remaining files; the process exits non-zero if any file failed.
	var failed int
	for _, input := range inputs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := convertFile(ctx, p, kafkaSink, jnl, cfg, input, logger); err != nil {
			logger.Error("file conversion failed", "input", input, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d input files failed", failed, len(inputs))
	}
	return nil
}

func convertFile(ctx context.Context, p *pipeline.Pipeline, kafkaSink *kafkaadapter.Writer, jnl *journal.Journal, cfg *config.Config, input string, logger *slog.Logger) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := bufrfile.Open(outputPath(cfg.OutputDir, input), logger)
	if err != nil {
		return err
	}

	sinks := []pipeline.Sink{out}
	if kafkaSink != nil {
		sinks = append(sinks, kafkaSink)
	}

	summary, runErr := p.Run(ctx, pipeline.NewFileSource(in, cfg.DelimiterRune()), sinks, input)

	if err := out.Close(); err != nil && runErr == nil {
		runErr = err
	}

	if jnl != nil {
		if err := jnl.RecordRun(ctx, summary); err != nil {
			logger.Error("journal write failed", "run_id", summary.RunID, "error", err)
		}
	}
	return runErr
}

// outputPath derives the destination file name: the input base name with
// its extension swapped for .bufr.
func outputPath(dir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".bufr")
}
