package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggerConfig
		wantErr bool
	}{
		{name: "json", cfg: LoggerConfig{Level: "info", Format: "json"}},
		{name: "console", cfg: LoggerConfig{Level: "debug", Format: "console"}},
		{name: "empty format defaults to json", cfg: LoggerConfig{Level: "warn"}},
		{name: "bad level", cfg: LoggerConfig{Level: "loud", Format: "json"}, wantErr: true},
		{name: "bad format", cfg: LoggerConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}
