// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package artifact stores rendered heatmap images in BadgerDB.

Every rendered frame is written under its artifact filename. SetLatest then
points "latest" at it once the frame record exists. Filenames are generated
once per frame and never reused, so a stored artifact is immutable.

Key layout:

	artifact:<filename>   JPEG bytes for one frame
	latest                filename of the most recently written artifact

Usage:

	store, err := artifact.Open(&cfg.Artifacts)
	if err != nil {
	    return err
	}
	defer store.Close()

	name := artifact.NewFilename(time.Now())
	if err := store.Put(ctx, name, jpegBytes); err != nil {
	    return err
	}
	// ... insert the frame record ...
	if err := store.SetLatest(ctx, name); err != nil {
	    return err
	}
*/
package artifact
