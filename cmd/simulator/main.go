// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package main is a synthetic sensor that posts thermal frames to a
// thermalwatch server.
//
// Each frame is w*h whole-degree temperatures drawn uniformly from
// [20, 60), encoded as little-endian int16 hundredths of a degree. Every
// -spike-every frames the whole grid is shifted up by -spike degrees so the
// server's alert engine has something to report.
//
// Usage:
//
//	simulator -url http://127.0.0.1:5000/upload -key $THERMAL_API_KEY -rate 1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/thermalwatch/internal/logging"
)

type options struct {
	url        string
	key        string
	width      int
	height     int
	perSecond  float64
	count      int
	spike      float64
	spikeEvery int
	timeout    time.Duration
}

func parseOptions(args []string) (*options, error) {
	fs := flag.NewFlagSet("simulator", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.url, "url", "http://127.0.0.1:5000/upload", "upload endpoint")
	fs.StringVar(&opts.key, "key", os.Getenv("THERMAL_API_KEY"), "shared secret (default $THERMAL_API_KEY)")
	fs.IntVar(&opts.width, "w", 80, "frame width")
	fs.IntVar(&opts.height, "h", 62, "frame height")
	fs.Float64Var(&opts.perSecond, "rate", 1, "frames per second")
	fs.IntVar(&opts.count, "count", 0, "frames to send, 0 for unlimited")
	fs.Float64Var(&opts.spike, "spike", 10, "degrees added to spike frames")
	fs.IntVar(&opts.spikeEvery, "spike-every", 0, "send a spike frame every N frames, 0 to disable")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-request timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.key == "" {
		opts.key = "CHANGE_ME"
	}
	if opts.width < 1 || opts.height < 1 {
		return nil, fmt.Errorf("frame dimensions must be positive, got %dx%d", opts.width, opts.height)
	}
	if opts.perSecond <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", opts.perSecond)
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logging.Fatal().Err(err).Msg("Invalid arguments")
	}
	logging.Init(logging.Config{Level: "info", Format: "console"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Simulator stopped")
	}
}

func run(ctx context.Context, opts *options) error {
	client := &uploader{
		url:    opts.url,
		key:    opts.key,
		client: &http.Client{Timeout: opts.timeout},
	}
	gen := newGenerator(opts.width, opts.height, time.Now().UnixNano())
	limiter := rate.NewLimiter(rate.Limit(opts.perSecond), 1)

	logging.Info().
		Str("url", opts.url).
		Int("width", opts.width).
		Int("height", opts.height).
		Float64("rate", opts.perSecond).
		Msg("Sending frames")

	for sent := 0; opts.count == 0 || sent < opts.count; sent++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		offset := 0.0
		if opts.spikeEvery > 0 && (sent+1)%opts.spikeEvery == 0 {
			offset = opts.spike
		}

		result, err := client.send(ctx, gen.next(offset), opts.width, opts.height)
		if err != nil {
			logging.Warn().Err(err).Int("frame", sent+1).Msg("Upload failed")
			continue
		}
		logging.Info().
			Int64("frame_id", result.FrameID).
			Float64("min", result.Min).
			Float64("max", result.Max).
			Float64("mean", result.Mean).
			Msg("Server accepted frame")
	}
	return nil
}
