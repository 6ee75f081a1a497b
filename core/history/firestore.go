// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package history persists prediction results to Cloud Firestore and serves
the recent-diagnoses view.

The whole package is optional at runtime: without credentials the store is
never dialed and handlers report the feature as unavailable.
*/
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"codeberg.org/cropdoctor/cropdoctor/core/audit"
)

// recentLimit bounds the history listing.
const recentLimit = 50

// collection is the Firestore collection holding prediction documents.
const collection = "predictions"

// ErrDisabled indicates no store was configured.
var ErrDisabled = errors.New("prediction history is not configured")

// DefaultStore is the process-wide store, set during startup. It stays nil
// when Firestore credentials are absent.
var DefaultStore *Store

// Prediction is one stored diagnosis.
type Prediction struct {
	ID         string    `firestore:"-" json:"id"`
	Filename   string    `firestore:"filename" json:"filename"`
	Class      string    `firestore:"prediction" json:"prediction"`
	Confidence float64   `firestore:"confidence" json:"confidence"`
	Timestamp  time.Time `firestore:"timestamp" json:"timestamp"`
}

// Store wraps a Firestore client.
type Store struct {
	client *firestore.Client
}

// Dial connects to Firestore using a service-account key file.
func Dial(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Add records a prediction. The document timestamp is set server-side so
// ordering does not depend on clock skew between replicas.
func (s *Store) Add(ctx context.Context, p Prediction) error {
	span := audit.Span{
		Destination: audit.ToFirestore,
		Method:      "Add",
		URL:         collection,
	}

	_ = span.Begin(ctx)
	defer span.End()

	_, _, err := s.client.Collection(collection).Add(ctx, map[string]any{
		"filename":   p.Filename,
		"prediction": p.Class,
		"confidence": p.Confidence,
		"timestamp":  firestore.ServerTimestamp,
	})
	if err != nil {
		span.Error = err

		return fmt.Errorf("failed to store prediction: %w", err)
	}

	return nil
}

// Recent returns the newest predictions, capped at 50.
func (s *Store) Recent(ctx context.Context) ([]Prediction, error) {
	span := audit.Span{
		Destination: audit.ToFirestore,
		Method:      "Recent",
		URL:         collection,
	}

	_ = span.Begin(ctx)
	defer span.End()

	iter := s.client.Collection(collection).
		OrderBy("timestamp", firestore.Desc).
		Limit(recentLimit).
		Documents(ctx)
	defer iter.Stop()

	predictions := []Prediction{}

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			span.Error = err

			return nil, fmt.Errorf("failed to list predictions: %w", err)
		}

		var p Prediction
		if err := doc.DataTo(&p); err != nil {
			span.Error = err

			return nil, fmt.Errorf("failed to decode prediction %s: %w", doc.Ref.ID, err)
		}

		p.ID = doc.Ref.ID
		predictions = append(predictions, p)
	}

	return predictions, nil
}

// Close releases the underlying Firestore connection.
func (s *Store) Close() error {
	return s.client.Close()
}
