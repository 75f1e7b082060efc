/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Log directory management for QueryCollect. Retention of old log files, file
statistics and a line-based analysis of generated rounds, guesses and requests.
*/

package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogManager manages the log files of one directory
type LogManager struct {
	logDir   string
	maxFiles int
}

// NewLogManager creates a new log manager
func NewLogManager(logDir string, maxFiles int) *LogManager {
	return &LogManager{logDir: logDir, maxFiles: maxFiles}
}

func (lm *LogManager) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(lm.logDir, filePrefix+"*.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob log files: %w", err)
	}
	return files, nil
}

// CleanupOldLogs removes the oldest log files beyond maxFiles
func (lm *LogManager) CleanupOldLogs() error {
	files, err := lm.files()
	if err != nil {
		return err
	}
	if lm.maxFiles <= 0 || len(files) <= lm.maxFiles {
		return nil
	}

	// Names carry the creation timestamp, so lexical order is age order
	sort.Strings(files)

	for _, file := range files[:len(files)-lm.maxFiles] {
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("failed to remove file %s: %w", file, err)
		}
	}
	return nil
}

// LogStats holds statistics about log files
type LogStats struct {
	TotalFiles int       `json:"total_files"`
	TotalSize  int64     `json:"total_size"`
	OldestFile time.Time `json:"oldest_file"`
	NewestFile time.Time `json:"newest_file"`
}

// GetLogStats returns statistics about log files
func (lm *LogManager) GetLogStats() (*LogStats, error) {
	files, err := lm.files()
	if err != nil {
		return nil, err
	}

	stats := &LogStats{TotalFiles: len(files)}
	for _, file := range files {
		stat, err := os.Stat(file)
		if err != nil {
			continue
		}
		stats.TotalSize += stat.Size()
		if stats.OldestFile.IsZero() || stat.ModTime().Before(stats.OldestFile) {
			stats.OldestFile = stat.ModTime()
		}
		if stat.ModTime().After(stats.NewestFile) {
			stats.NewestFile = stat.ModTime()
		}
	}
	return stats, nil
}

// LogAnalysis holds the results of log analysis
type LogAnalysis struct {
	LogFiles     int   `json:"log_files"`
	TotalLines   int64 `json:"total_lines"`
	WarningCount int64 `json:"warning_count"`
	ErrorCount   int64 `json:"error_count"`
	Generations  int64 `json:"generations"`
	Guesses      int64 `json:"guesses"`
	Requests     int64 `json:"requests"`
}

// AnalyzeLogs counts levels and domain events over every log file
func (lm *LogManager) AnalyzeLogs() (*LogAnalysis, error) {
	files, err := lm.files()
	if err != nil {
		return nil, err
	}

	analysis := &LogAnalysis{LogFiles: len(files)}
	for _, file := range files {
		if err := analyzeFile(file, analysis); err != nil {
			return nil, fmt.Errorf("failed to analyze file %s: %w", file, err)
		}
	}
	return analysis, nil
}

func analyzeFile(path string, analysis *LogAnalysis) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		analyzeLine(scanner.Text(), analysis)
	}
	return scanner.Err()
}

// analyzeLine works for the custom, text and JSON formats alike
func analyzeLine(line string, analysis *LogAnalysis) {
	analysis.TotalLines++

	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERROR"):
		analysis.ErrorCount++
	case strings.Contains(upper, "WARN"):
		analysis.WarningCount++
	}

	switch {
	case strings.Contains(line, "Round generated"):
		analysis.Generations++
	case strings.Contains(line, "Guess recorded"):
		analysis.Guesses++
	case strings.Contains(line, "Request served"):
		analysis.Requests++
	}
}

// Summary returns a short human readable report
func (a *LogAnalysis) Summary() string {
	return fmt.Sprintf(
		"Log Analysis Summary:\n"+
			"  Files: %d\n"+
			"  Total Lines: %d\n"+
			"  Warnings: %d\n"+
			"  Errors: %d\n"+
			"  Rounds: %d\n"+
			"  Guesses: %d\n"+
			"  Requests: %d",
		a.LogFiles, a.TotalLines, a.WarningCount, a.ErrorCount,
		a.Generations, a.Guesses, a.Requests,
	)
}
