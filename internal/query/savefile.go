// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/jwpark/challenge-radar/pkg/types"
)

// SaveFile is the on-disk representation of one processed query. A user
// can save a query's results to a file and reload them later without
// re-running the pipeline.
type SaveFile struct {
	Request *types.ParsedUserRequest `yaml:"request,omitempty"`
	Results []types.ClassifiedVideo  `yaml:"results"`
	Summary SaveSummary              `yaml:"summary"`
}

// SaveSummary stores result statistics and a timestamp.
type SaveSummary struct {
	Total          int       `yaml:"total"`
	ProcessingTime float64   `yaml:"processing_time"`
	Warnings       []string  `yaml:"warnings,omitempty"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// WriteSaveFile saves a query response to a YAML file.
func WriteSaveFile(path string, resp *types.QueryResponse) error {
	sf := SaveFile{
		Request: resp.ParsedRequest,
		Results: resp.Results,
		Summary: SaveSummary{
			Total:          resp.TotalFound,
			ProcessingTime: resp.ProcessingTime,
			Warnings:       resp.Warnings,
			Timestamp:      time.Now(),
		},
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling save file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSaveFile loads a previously saved query file from disk.
func ReadSaveFile(path string) (*SaveFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save file: %w", err)
	}
	var sf SaveFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing save file: %w", err)
	}
	return &sf, nil
}
