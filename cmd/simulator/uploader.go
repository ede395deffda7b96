// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thermalwatch/internal/frame"
	"github.com/tomtom215/thermalwatch/internal/models"
)

const (
	minCelsius  = 20
	spanCelsius = 40
)

// generator produces random frames.
type generator struct {
	width, height int
	rng           *rand.Rand
}

func newGenerator(width, height int, seed int64) *generator {
	return &generator{width: width, height: height, rng: rand.New(rand.NewSource(seed))}
}

// next returns one encoded frame with every sample shifted by offset degrees.
func (g *generator) next(offset float64) string {
	raw := make([]int16, g.width*g.height)
	for i := range raw {
		celsius := float64(minCelsius+g.rng.Intn(spanCelsius)) + offset
		raw[i] = int16(celsius * frame.Scale)
	}
	return frame.EncodeRaw(raw)
}

// uploader posts frames to the server.
type uploader struct {
	url    string
	key    string
	client *http.Client
}

// send posts one frame and returns the server's summary.
func (u *uploader) send(ctx context.Context, frameB64 string, width, height int) (*models.UploadResponse, error) {
	payload, err := json.Marshal(&models.UploadRequest{FrameB64: frameB64, Width: &width, Height: &height})
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.key)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post frame: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result models.UploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
