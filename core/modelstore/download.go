// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package modelstore fetches the trained model artifact from a Cloud Storage
bucket on startup.

The running service never loads the model itself (inference happens in a
separate serving process); this package only makes sure the artifact is on
disk next to it.
*/
package modelstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"codeberg.org/cropdoctor/cropdoctor/core/audit"
)

// EnsureModel downloads bucket/object to localPath unless the file already
// exists. A partial download never replaces an existing artifact: content
// goes to a temporary file first and is renamed on success.
func EnsureModel(ctx context.Context, logger zerolog.Logger, bucket, object, localPath, credentialsFile string) error {
	if _, err := os.Stat(localPath); err == nil {
		logger.Debug().Str("path", localPath).Msg("Model artifact already present")

		return nil
	}

	span := audit.Span{
		Destination: audit.ToGCS,
		Method:      "Download",
		URL:         fmt.Sprintf("gs://%s/%s", bucket, object),
	}

	_ = span.Begin(ctx)
	defer span.End()

	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		span.Error = err

		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		span.Error = err

		return fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		span.Error = err

		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".model-download-*")
	if err != nil {
		span.Error = err

		return err
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		span.Error = err

		return fmt.Errorf("failed to download model: %w", err)
	}

	if err := tmp.Close(); err != nil {
		span.Error = err

		return err
	}

	if err := os.Rename(tmp.Name(), localPath); err != nil {
		span.Error = err

		return err
	}

	logger.Info().
		Str("path", localPath).
		Int64("bytes", written).
		Msg("Downloaded model artifact")

	return nil
}
