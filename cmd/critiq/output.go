package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// writeOutputFile saves a result as indented JSON. The review text fields
// inside carry the model's output byte for byte.
func writeOutputFile(path string, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
