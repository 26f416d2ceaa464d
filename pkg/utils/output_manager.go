package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles output file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateRunOutputDir creates a directory named after the render run
func (om *OutputManager) CreateRunOutputDir(runID string) (string, error) {
	runDir := filepath.Join(om.BaseOutputDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run output directory: %w", err)
	}

	return runDir, nil
}

// GetOutputFilePath generates a full path for an output file
func (om *OutputManager) GetOutputFilePath(runID, fileName string) (string, error) {
	runDir, err := om.CreateRunOutputDir(runID)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)

	return filepath.Join(runDir, cleanFileName), nil
}

// WriteFile writes data to fileName inside the run directory and returns its path
func (om *OutputManager) WriteFile(runID, fileName string, data []byte) (string, error) {
	path, err := om.GetOutputFilePath(runID, fileName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// FileType maps a file extension to a source/export type name
func FileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	case ".png":
		return "png"
	default:
		return "unknown"
	}
}
