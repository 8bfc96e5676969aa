package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	dErrors "statuslist/pkg/domain-errors"
)

// Storage backends.
const (
	StorageS3     = "s3"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Signer backends.
const (
	SignerKMS   = "kms"
	SignerLocal = "local"
)

const (
	DefaultAddr          = ":8080"
	DefaultEventsTopic   = "status-list-events"
	DefaultLocalEndpoint = "http://localhost:4566"
	DefaultRegion        = "eu-west-2"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
}

// RedisConfig tunes the Redis client used by the redis storage backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers string
	Topic   string
}

// Enabled reports whether status events should be published.
func (k KafkaConfig) Enabled() bool {
	return strings.TrimSpace(k.Brokers) != ""
}

type AWSConfig struct {
	IsLocal  bool
	Endpoint string
	Region   string
}

type Config struct {
	Server Server

	SigningKeyID     string
	StatusListBucket string
	JWKSBucket       string
	SelfURL          string

	Storage      string
	Signer       string
	SigningKey   string
	RegistryFile string

	Redis RedisConfig
	Kafka KafkaConfig
	AWS   AWSConfig
}

// FromEnv builds the service config from a lookup function, usually os.Getenv.
// Every missing required variable is reported in a single error.
func FromEnv(env func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(env(key)) }

	var missing []string
	required := func(key string) string {
		v := get(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Server: Server{
			Addr:        orDefault(get("STATUS_LIST_ADDR"), DefaultAddr),
			Environment: orDefault(get("ENVIRONMENT"), "local"),
			LogLevel:    orDefault(get("LOG_LEVEL"), "info"),
		},
		SigningKeyID:     required("SIGNING_KEY_ID"),
		StatusListBucket: required("STATUS_LIST_BUCKET_NAME"),
		SelfURL:          required("SELF_URL"),
		JWKSBucket:       get("JWKS_BUCKET_NAME"),
		Storage:          strings.ToLower(orDefault(get("STATUS_LIST_STORAGE"), StorageS3)),
		Signer:           strings.ToLower(orDefault(get("STATUS_LIST_SIGNER"), SignerKMS)),
		SigningKey:       get("STATUS_LIST_SIGNING_KEY_FILE"),
		RegistryFile:     get("STATUS_LIST_REGISTRY_FILE"),
		Redis: RedisConfig{
			URL:          get("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: get("KAFKA_BROKERS"),
			Topic:   orDefault(get("STATUS_EVENTS_TOPIC"), DefaultEventsTopic),
		},
		AWS: AWSConfig{
			Region: orDefault(get("AWS_REGION"), DefaultRegion),
		},
	}

	if len(missing) > 0 {
		return Config{}, dErrors.New(dErrors.CodeConfiguration,
			"missing required env vars: "+strings.Join(missing, ", "))
	}

	if err := validateSelfURL(cfg.SelfURL); err != nil {
		return Config{}, err
	}

	if v := get("IS_LOCAL"); v != "" {
		local, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("IS_LOCAL must be a boolean, got %q", v))
		}
		cfg.AWS.IsLocal = local
	}
	if cfg.AWS.IsLocal {
		cfg.AWS.Endpoint = orDefault(get("AWS_ENDPOINT_URL"), DefaultLocalEndpoint)
	}

	switch cfg.Storage {
	case StorageS3, StorageMemory:
	case StorageRedis:
		if cfg.Redis.URL == "" {
			return Config{}, dErrors.New(dErrors.CodeConfiguration, "REDIS_URL is required when STATUS_LIST_STORAGE=redis")
		}
	default:
		return Config{}, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("unknown STATUS_LIST_STORAGE %q", cfg.Storage))
	}

	switch cfg.Signer {
	case SignerKMS, SignerLocal:
	default:
		return Config{}, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("unknown STATUS_LIST_SIGNER %q", cfg.Signer))
	}

	return cfg, nil
}

// validateSelfURL requires an absolute http(s) URL. Subject URIs are built by
// appending a path to it, so a query or fragment would hide that path.
func validateSelfURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("SELF_URL %q is not a valid URL", raw))
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("SELF_URL %q must use http or https", raw))
	case u.Host == "":
		return dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("SELF_URL %q has no host", raw))
	case u.RawQuery != "" || u.ForceQuery || u.Fragment != "":
		return dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("SELF_URL %q must not carry a query or fragment", raw))
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
