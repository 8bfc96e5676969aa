package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuslist/internal/platform/config"
)

func TestFlags_Apply(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantAddr     string
		wantRegistry string
		wantLevel    string
	}{
		{
			name:         "unset flags keep env values",
			args:         nil,
			wantAddr:     ":9090",
			wantRegistry: "/etc/env.yaml",
			wantLevel:    "warn",
		},
		{
			name:         "set flags win",
			args:         []string{"--addr", ":7070", "--log-level", "debug"},
			wantAddr:     ":7070",
			wantRegistry: "/etc/env.yaml",
			wantLevel:    "debug",
		},
		{
			name:         "flag may clear the registry file",
			args:         []string{"--registry-file="},
			wantAddr:     ":9090",
			wantRegistry: "",
			wantLevel:    "warn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlags(pflag.ContinueOnError)
			require.NoError(t, flags.set.Parse(tt.args))

			cfg := config.Config{
				Server:       config.Server{Addr: ":9090", LogLevel: "warn"},
				RegistryFile: "/etc/env.yaml",
			}
			flags.apply(&cfg)

			assert.Equal(t, tt.wantAddr, cfg.Server.Addr)
			assert.Equal(t, tt.wantRegistry, cfg.RegistryFile)
			assert.Equal(t, tt.wantLevel, cfg.Server.LogLevel)
		})
	}
}

// Flags parse without any environment, so --help works before config loads.
func TestFlags_ParseWithoutEnv(t *testing.T) {
	flags := newFlags(pflag.ContinueOnError)
	err := flags.set.Parse([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
