package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.ServerAddr, "http://127.0.0.1:8000")
	assert.Equal(t, c.DownloadDir, "downloads")
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://srv:9000", "-o", "/tmp/dl"},
			expectPanic: false,
			expected:    &Config{ServerAddr: "http://srv:9000", DownloadDir: "/tmp/dl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseJson_NoFlagLeavesConfigUntouched(t *testing.T) {
	os.Args = []string{"cmd"}

	c := &Config{}
	c.LoadDefaults()
	before := *c

	parseJson(c)

	assert.Equal(t, before, *c)
}

func TestParseJson_OverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	body := `{"server_addr": "http://json:8000", "download_dir": "/data/dl"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"cmd", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "http://json:8000", c.ServerAddr)
	assert.Equal(t, "/data/dl", c.DownloadDir)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	os.Args = []string{"cmd", "-c", path}

	c := &Config{}
	require.Panics(t, func() { parseJson(c) })
}
