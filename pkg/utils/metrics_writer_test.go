/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer_test.go
Description: Tests for the metrics report writer.
*/

package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/detective-solutions/QueryCollect/pkg/utils"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteMetricsResult tests report naming and content
func TestWriteMetricsResult(t *testing.T) {
	dir := t.TempDir()

	path, err := utils.WriteMetricsResult(dir, "check", "1.0.0", map[string]int{"passed": 15, "total": 15})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "check"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_check_v1.0.0.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 15, got["passed"])
}

// TestWriteMetricsResultUnmarshalable tests marshal failures
func TestWriteMetricsResultUnmarshalable(t *testing.T) {
	_, err := utils.WriteMetricsResult(t.TempDir(), "check", "1.0.0", make(chan int))
	assert.Error(t, err)
}
