package question

import (
	"encoding/json"
	"fmt"
	"os"
)

// Question is one entry of the static interview catalog.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// LoadFile reads the question catalog from a JSON file. The catalog is
// read-only at runtime, so this runs once at startup.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question catalog: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question catalog %s: %w", path, err)
	}
	return questions, nil
}
