package config

import (
	"errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server understands. Values
// are kept as strings so an unset variable can be told apart from an explicit
// zero.
type EnvConfig struct {
	EndpointAddrHTTP        string `env:"INOTEBOOK_HTTP_ADDR" env-description:"HTTP listen address"`
	EndpointAddrGRPC        string `env:"INOTEBOOK_GRPC_ADDR" env-description:"gRPC health listen address"`
	DatabaseDSN             string `env:"INOTEBOOK_DATABASE_DSN" env-description:"PostgreSQL DSN"`
	SecretKey               string `env:"INOTEBOOK_SECRET_KEY" env-description:"JWT signing secret"`
	TokenValidityDuration   string `env:"INOTEBOOK_TOKEN_VALIDITY" env-description:"token lifetime, e.g. 24h; 0 disables expiry"`
	BcryptCost              string `env:"INOTEBOOK_BCRYPT_COST" env-description:"bcrypt cost factor"`
	LogLevel                string `env:"INOTEBOOK_LOG_LEVEL" env-description:"debug, info, warn or error"`
	RedisAddr               string `env:"INOTEBOOK_REDIS_ADDR" env-description:"Redis address for the note cache"`
	RedisPassword           string `env:"INOTEBOOK_REDIS_PASSWORD" env-description:"Redis password"`
	CacheTTL                string `env:"INOTEBOOK_CACHE_TTL" env-description:"note list cache TTL"`
	S3RootUser              string `env:"INOTEBOOK_S3_USER" env-description:"S3 access key"`
	S3RootPassword          string `env:"INOTEBOOK_S3_PASSWORD" env-description:"S3 secret key"`
	S3Bucket                string `env:"INOTEBOOK_S3_BUCKET" env-description:"S3 bucket for note attachments"`
	S3Region                string `env:"INOTEBOOK_S3_REGION" env-description:"S3 region"`
	S3BaseEndpoint          string `env:"INOTEBOOK_S3_ENDPOINT" env-description:"S3 base endpoint"`
	PresignValidityDuration string `env:"INOTEBOOK_PRESIGN_VALIDITY" env-description:"presigned URL lifetime"`
}

// dotenvFile is loaded into the environment before it is read. Variables that
// are already set are not overridden.
var dotenvFile = ".env"

// parseEnv overlays values from INOTEBOOK_* environment variables. Malformed
// numbers or durations panic.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	setDuration(&config.TokenValidityDuration, e.TokenValidityDuration)
	setInt(&config.BcryptCost, e.BcryptCost)
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.RedisAddr, e.RedisAddr)
	setString(&config.RedisPassword, e.RedisPassword)
	setDuration(&config.CacheTTL, e.CacheTTL)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setDuration(&config.PresignValidityDuration, e.PresignValidityDuration)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v string) {
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
