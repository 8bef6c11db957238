package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "clouddrive.json", "-a", "http://srv"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "clouddrive.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=override.json", "-a", "http://srv"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=override.json"},
		},
		{
			name:         "both short and long present, preserve order",
			args:         []string{"--config=a.json", "-c", "b.json", "-x", "1"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=a.json", "-c", "b.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag (no value)",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag but with equals form",
			args:         []string{"--config=--odd.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--odd.json"},
		},
		{
			name:         "multiple allowed flags kept",
			args:         []string{"-a", "http://127.0.0.1:8000", "-c", "clouddrive.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", "http://127.0.0.1:8000", "-c", "clouddrive.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "path with spaces remains single arg",
			args:         []string{"-c", "/home/user/clouddrive.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "/home/user/clouddrive.json"},
		},
		{
			name:         "do not treat next dash-starting token as value",
			args:         []string{"-c", "--config=override.json"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "--config=override.json"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "a.json", "-c", "b.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "a.json", "-c", "b.json"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/c1.json"}
		assert.Equal(t, "/path/c1.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/c2.json"}
		assert.Equal(t, "/path/c2.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
