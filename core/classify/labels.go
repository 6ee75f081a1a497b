// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package classify

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// Labels maps a model output index to its class name, for example
// 4 -> "Corn_(maize)___Northern_Leaf_Blight".
type Labels map[int]string

// LoadLabels reads a class-index file produced during model training.
//
// The file maps class name to index ({"Apple___Apple_scab": 0, ...});
// the returned Labels is the inversion of that mapping.
func LoadLabels(fsys fs.FS, name string) (Labels, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read class index file: %w", err)
	}

	var byName map[string]int
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("failed to unmarshal class index file: %w", err)
	}

	labels := make(Labels, len(byName))
	for name, index := range byName {
		labels[index] = name
	}

	return labels, nil
}

// Name returns the class name for index, or a placeholder when the model
// reports an index outside the label set.
func (l Labels) Name(index int) string {
	if name, ok := l[index]; ok {
		return name
	}

	return fmt.Sprintf("class_%d", index)
}
