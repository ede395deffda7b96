// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package heatmap renders temperature grids as colorized JPEG images.
//
// Rendering runs in three steps:
//  1. Min-max normalization to 8-bit intensity (observed min -> 0, max -> 255)
//  2. Bilinear upsampling by UpsampleFactor
//  3. Jet color mapping (blue for cool, red for hot) and JPEG encoding
//
// A uniform grid (min == max) normalizes to intensity 0 everywhere and renders
// as a flat dark-blue image. It is not an error.
package heatmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/tomtom215/thermalwatch/internal/frame"
)

const (
	// UpsampleFactor is the integer scale applied to both axes.
	UpsampleFactor = 4

	// JPEGQuality is the fixed encoder quality for stored artifacts.
	JPEGQuality = 85
)

// RenderError wraps a failure inside the image pipeline.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render heatmap: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// jetLUT maps an 8-bit intensity to its jet color.
var jetLUT = buildJetLUT()

// Render produces the JPEG bytes for grid.
func Render(grid *frame.Grid) ([]byte, error) {
	gray := normalize(grid)

	bounds := image.Rect(0, 0, grid.Width()*UpsampleFactor, grid.Height()*UpsampleFactor)
	scaled := image.NewGray(bounds)
	draw.BiLinear.Scale(scaled, bounds, gray, gray.Bounds(), draw.Src, nil)

	colored := colorize(scaled)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, colored, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

// normalize maps the grid linearly onto 0..255, truncating fractions.
func normalize(grid *frame.Grid) *image.Gray {
	stats := grid.Stats()
	span := stats.Max - stats.Min

	img := image.NewGray(image.Rect(0, 0, grid.Width(), grid.Height()))
	if span == 0 {
		return img
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			v := (grid.At(x, y) - stats.Min) * 255 / span
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}
	return img
}

func colorize(src *image.Gray) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, jetLUT[src.GrayAt(x, y).Y])
		}
	}
	return dst
}

// buildJetLUT follows the classic piecewise-linear jet ramp:
// dark blue, blue, cyan, yellow, red, dark red.
func buildJetLUT() [256]color.RGBA {
	var lut [256]color.RGBA
	for i := range lut {
		v := float64(i) / 255
		lut[i] = color.RGBA{
			R: channel(1.5 - abs(4*v-3)),
			G: channel(1.5 - abs(4*v-2)),
			B: channel(1.5 - abs(4*v-1)),
			A: 0xff,
		}
	}
	return lut
}

func channel(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	default:
		return uint8(f*255 + 0.5)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
