package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/inotebook/internal/flagx"
	"github.com/dmitrijs2005/inotebook/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept Go
// duration strings ("24h") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	TokenValidityDuration   timex.Duration `json:"token_validity_duration"`
	BcryptCost              int            `json:"bcrypt_cost"`
	LogLevel                string         `json:"log_level"`
	RedisAddr               string         `json:"redis_addr"`
	RedisPassword           string         `json:"redis_password"`
	CacheTTL                timex.Duration `json:"cache_ttl"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	PresignValidityDuration timex.Duration `json:"presign_validity_duration"`
}

// parseJson overlays values from the JSON file given with -c or -config.
// Keys missing from the file keep their current values. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		EndpointAddrHTTP:        config.EndpointAddrHTTP,
		EndpointAddrGRPC:        config.EndpointAddrGRPC,
		DatabaseDSN:             config.DatabaseDSN,
		SecretKey:               config.SecretKey,
		TokenValidityDuration:   timex.Duration{Duration: config.TokenValidityDuration},
		BcryptCost:              config.BcryptCost,
		LogLevel:                config.LogLevel,
		RedisAddr:               config.RedisAddr,
		RedisPassword:           config.RedisPassword,
		CacheTTL:                timex.Duration{Duration: config.CacheTTL},
		S3RootUser:              config.S3RootUser,
		S3RootPassword:          config.S3RootPassword,
		S3Bucket:                config.S3Bucket,
		S3Region:                config.S3Region,
		S3BaseEndpoint:          config.S3BaseEndpoint,
		PresignValidityDuration: timex.Duration{Duration: config.PresignValidityDuration},
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.BcryptCost = c.BcryptCost
	config.LogLevel = c.LogLevel
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.CacheTTL = c.CacheTTL.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PresignValidityDuration = c.PresignValidityDuration.Duration
}
