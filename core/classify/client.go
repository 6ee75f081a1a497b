// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package classify recognizes plant leaf diseases from photos.

The model itself runs behind a TensorFlow Serving REST endpoint; this
package handles image preprocessing (decode, resize, normalize) and maps
the returned score vector back to a class name.
*/
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	// Register the decoders for the formats phone cameras produce.
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"codeberg.org/cropdoctor/cropdoctor/core/audit"
	"codeberg.org/cropdoctor/cropdoctor/server/utils"
)

// inputSize is the edge length the model was trained on.
const inputSize = 128

var (
	errHTTPRequestFailed = errors.New("HTTP request failed")
	errEmptyPrediction   = errors.New("model returned no predictions")
)

// DefaultClient is the process-wide classifier client, set during startup.
var DefaultClient *Client

// Prediction is the outcome of a single classification.
type Prediction struct {
	// Class is the raw model label, e.g. "Tomato___Late_blight".
	Class string `json:"class"`

	// Confidence is the winning softmax score as a percentage, rounded
	// to two decimals.
	Confidence float64 `json:"confidence"`
}

// Client sends preprocessed images to a TensorFlow Serving model.
// construct this struct manually.
type Client struct {
	// PredictURL is the full model endpoint, for example
	// "http://localhost:8501/v1/models/plant_disease:predict".
	PredictURL string

	Labels Labels
}

type predictRequest struct {
	Instances [][][][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

// Classify decodes an uploaded image and returns the model's best guess.
func (c *Client) Classify(ctx context.Context, upload io.Reader) (Prediction, error) {
	instance, err := preprocess(upload)
	if err != nil {
		return Prediction{}, err
	}

	payload, err := json.Marshal(predictRequest{
		Instances: [][][][]float64{instance},
	})
	if err != nil {
		return Prediction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.PredictURL, bytes.NewReader(payload))
	if err != nil {
		return Prediction{}, err
	}

	req.Header.Set("Content-Type", "application/json")

	span := audit.Span{
		Destination: audit.ToClassifier,
		Method:      http.MethodPost,
		URL:         c.PredictURL,
	}

	_ = span.Begin(ctx)
	defer span.End()

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		span.Error = err

		return Prediction{}, err
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.Error = err

		return Prediction{}, err
	}

	if resp.StatusCode != http.StatusOK {
		span.Error = errHTTPRequestFailed

		return Prediction{}, fmt.Errorf("%w with status code %d: %s", errHTTPRequestFailed, resp.StatusCode, string(body))
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		span.Error = err

		return Prediction{}, fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}

	if parsed.Error != "" {
		span.Error = errors.New(parsed.Error)

		return Prediction{}, fmt.Errorf("model serving error: %s", parsed.Error)
	}

	if len(parsed.Predictions) == 0 || len(parsed.Predictions[0]) == 0 {
		span.Error = errEmptyPrediction

		return Prediction{}, errEmptyPrediction
	}

	index, score := argmax(parsed.Predictions[0])

	return Prediction{
		Class:      c.Labels.Name(index),
		Confidence: round2(score * 100),
	}, nil
}

// preprocess decodes the image, scales it to the model's input size and
// normalizes pixel values to [0, 1] in HWC channel order.
func preprocess(upload io.Reader) ([][][]float64, error) {
	src, _, err := image.Decode(upload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, inputSize, inputSize))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	instance := make([][][]float64, inputSize)
	for y := range inputSize {
		row := make([][]float64, inputSize)
		for x := range inputSize {
			r, g, b, _ := scaled.At(x, y).RGBA()
			row[x] = []float64{
				float64(r>>8) / 255.0,
				float64(g>>8) / 255.0,
				float64(b>>8) / 255.0,
			}
		}
		instance[y] = row
	}

	return instance, nil
}

func argmax(scores []float64) (int, float64) {
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}

	return best, scores[best]
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
