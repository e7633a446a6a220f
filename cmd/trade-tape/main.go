package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"trade-tape/internal/binance"
	"trade-tape/internal/config"
	"trade-tape/internal/control"
	"trade-tape/internal/engine"
	"trade-tape/internal/kafka"
	"trade-tape/internal/render"
	"trade-tape/internal/symbols"
)

var (
	configPath  = flag.String("config", "config.yaml", "path to config file")
	symbolFlag  = flag.String("symbol", "", "initial symbol (overrides config)")
	brokersFlag = flag.String("brokers", "", "Kafka brokers, comma separated (overrides config)")
)

func main() {
	flag.Parse()
	_ = godotenv.Load() // best-effort: .env is optional

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	if *symbolFlag != "" {
		cfg.Symbol = *symbolFlag
	}
	if *brokersFlag != "" {
		cfg.KafkaBrokers = *brokersFlag
	}

	logger := config.NewLogger(cfg.LogLevel)

	canon := func(s string) string { return symbols.WithQuote(s, cfg.QuoteSuffix) }
	symbol := canon(cfg.Symbol)

	logger.Info("trade-tape starting",
		slog.String("symbol", symbol),
		slog.Duration("bucket_width", cfg.BucketWidth()),
		slog.Float64("value_threshold", cfg.ValueThreshold),
	)

	// Console input runs on its own goroutine; it only ever enqueues
	// switch requests, never touches engine state.
	ctrl := control.NewChannel()
	go control.ReadLines(os.Stdin, canon, ctrl)

	var sink engine.Sink
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		topic := cfg.KafkaTopic
		if topic == "" {
			topic = "trade_tape_buckets"
		}
		producer := kafka.NewProducer(brokers, topic)
		defer producer.Close()
		sink = producer
		logger.Info("kafka export enabled", slog.Any("brokers", brokers), slog.String("topic", topic))
	}

	view := render.NewTape(os.Stdout, cfg.BarGlyph, cfg.ValueThreshold)
	pipeline := engine.NewTradePipeline(
		engine.NewNoiseFilter(cfg.NoiseEpsilon),
		engine.NewBucketer(cfg.BucketWidth()),
		engine.Thresholds{Value: cfg.ValueThreshold, Large: cfg.LargeThreshold, BarUnit: cfg.BarUnit},
		view,
		sink,
	)

	dialer := &binance.Dialer{Endpoint: cfg.Endpoint, Stream: binance.StreamTrade, Log: logger}
	dial := func(ctx context.Context, sym string) (engine.Conn, error) {
		c, err := dialer.Dial(ctx, sym)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	sup := engine.NewSupervisor(dial, ctrl, pipeline, view, logger, symbol, cfg.ReconnectDelay())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sup.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("engine stopped", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("bye")
}
