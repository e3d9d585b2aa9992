package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		start       Config
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8080", "-m", "", "-d", "db", "-s", "secret", "-t", "30", "-k", "12",
				"-l", "warn", "-r", "redis:6379", "-u", "user", "-p", "password", "-b", "bucket",
				"-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:8080",
				EndpointAddrGRPC:      "",
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: 30 * time.Minute,
				BcryptCost:            12,
				LogLevel:              "warn",
				RedisAddr:             "redis:6379",
				S3RootUser:            "user",
				S3RootPassword:        "password",
				S3Bucket:              "bucket",
				S3Region:              "us-west-1",
				S3BaseEndpoint:        "http://endpoint",
			},
		},
		{
			name:  "zero validity disables expiry",
			args:  []string{"cmd", "-t", "0"},
			start: Config{TokenValidityDuration: time.Hour},
			expected: &Config{
				TokenValidityDuration: 0,
			},
		},
		{
			name:  "unset validity keeps sub-minute value",
			args:  []string{"cmd", "-c", "conf.json", "-x", "1"},
			start: Config{TokenValidityDuration: 90 * time.Second, SecretKey: "keep"},
			expected: &Config{
				TokenValidityDuration: 90 * time.Second,
				SecretKey:             "keep",
			},
		},
		{
			name:        "bad int panics",
			args:        []string{"cmd", "-k", "many"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := tt.start

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(&config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(&config) })
			assert.Empty(t, cmp.Diff(tt.expected, &config))
		})
	}
}
