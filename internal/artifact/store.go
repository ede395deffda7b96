// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/thermalwatch/internal/config"
	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/metrics"
)

// ErrNotFound is returned when no artifact exists for the requested name.
var ErrNotFound = errors.New("artifact not found")

const (
	prefixArtifact = "artifact:"
	keyLatest      = "latest"
)

// Store is a BadgerDB-backed artifact store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the artifact store described by cfg.
func Open(cfg *config.ArtifactConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("artifact store path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Artifact store opened")
	return &Store{db: db}, nil
}

// NewFilename returns a unique artifact name for a frame received at ts.
func NewFilename(ts time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("frame_%d_%s.jpg", ts.Unix(), suffix)
}

// Put writes data under filename. The artifact is durable once Put returns
// but does not become the latest until SetLatest names it.
func (s *Store) Put(ctx context.Context, filename string, data []byte) error {
	if filename == "" {
		return errors.New("artifact filename is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(artifactKey(filename), data))
	})
	metrics.RecordArtifactOperation("put", time.Since(start))
	if err != nil {
		return fmt.Errorf("write artifact %s: %w", filename, err)
	}

	metrics.ArtifactBytesWritten.Add(float64(len(data)))
	return nil
}

// SetLatest points "latest" at an artifact previously written with Put.
func (s *Store) SetLatest(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(artifactKey(filename)); err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry([]byte(keyLatest), []byte(filename)))
	})
	metrics.RecordArtifactOperation("set_latest", time.Since(start))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set latest artifact %s: %w", filename, err)
	}
	return nil
}

// Get returns the bytes stored under filename.
func (s *Store) Get(filename string) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.RecordArtifactOperation("get", time.Since(start)) }()

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(artifactKey(filename))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", filename, err)
	}
	return data, nil
}

// Latest returns the most recently written artifact and its filename.
func (s *Store) Latest() (string, []byte, error) {
	start := time.Now()
	defer func() { metrics.RecordArtifactOperation("latest", time.Since(start)) }()

	var (
		name string
		data []byte
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLatest))
		if err != nil {
			return err
		}
		ref, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		name = string(ref)

		item, err = txn.Get(artifactKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("read latest artifact: %w", err)
	}
	return name, data, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Artifact store closed")
	return nil
}

func artifactKey(filename string) []byte {
	return []byte(prefixArtifact + filename)
}
