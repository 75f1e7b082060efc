/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer.go
Description: Utility for writing reports to a metrics directory. Handles timestamped,
versioned and type-specific subdirectory naming. Ensures directories exist and writes
JSON files for easy analysis.
*/

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// WriteMetricsResult writes result as JSON under <dir>/<reportType>/ and returns the file path
func WriteMetricsResult(dir, reportType, version string, result interface{}) (string, error) {
	metricsDir := filepath.Join(dir, reportType)
	if err := os.MkdirAll(metricsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create metrics directory: %w", err)
	}

	// 2024-06-11_01-30-00.000_check_v1.0.0.json
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s_v%s.json", timestamp, reportType, version)
	filePath := filepath.Join(metricsDir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metrics file: %w", err)
	}
	return filePath, nil
}
