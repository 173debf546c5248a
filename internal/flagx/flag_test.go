package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost:8000"},
			allowed: []string{"-c", "--config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "long flag with equals",
			args:    []string{"--config=alt.json", "-a", "x"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end is kept",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "dash token is not consumed as a value",
			args:    []string{"-s", "-m", "memory"},
			allowed: []string{"-s", "-m"},
			want:    []string{"-s", "-m", "memory"},
		},
		{
			name:    "multiple allowed flags keep order",
			args:    []string{"-a", "h:1", "-t", "5", "-c", "conf.json"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-a", "h:1", "-t", "5"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFile([]string{"-c", "a.json", "-a", "x"}))
	assert.Equal(t, "b.json", ConfigFile([]string{"-config", "b.json"}))
	assert.Equal(t, "c.json", ConfigFile([]string{"-config=c.json"}))
	assert.Equal(t, "", ConfigFile([]string{"-a", "x"}))
	assert.Equal(t, "", ConfigFile(nil))
}
