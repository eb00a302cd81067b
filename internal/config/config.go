package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	OAuthIssuerURL   string
	OAuthAudience    string
	OAuthJWKSURL     string
	ClaimNamespace   string
	JWKSCacheTTLSecs int
	AuthTimeoutSecs  int

	SessionCookieName string
	SessionTTLHours   int
	InternalAPIKey    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Endpoint         string
	S3Bucket           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSSessionToken    string

	AWSSecretsManagerEndpoint string
	PostgresDSNSecretID       string

	UploadURLMaxSecs   int
	DownloadURLMaxSecs int

	ReportPolicyPath string

	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitFailClosed    bool
	RateLimitMaxKeys       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                  addr,
		PostgresDSN:               os.Getenv("POSTGRES_DSN"),
		LogLevel:                  envDefault("LOG_LEVEL", "info"),
		OAuthIssuerURL:            os.Getenv("OAUTH_ISSUER_URL"),
		OAuthAudience:             os.Getenv("OAUTH_AUDIENCE"),
		OAuthJWKSURL:              os.Getenv("OAUTH_JWKS_URL"),
		ClaimNamespace:            envDefault("CLAIM_NAMESPACE", "https://upskill.app/"),
		JWKSCacheTTLSecs:          envIntDefault("JWKS_CACHE_TTL_SECONDS", 300),
		AuthTimeoutSecs:           envIntDefault("AUTH_TIMEOUT_SECONDS", 2),
		SessionCookieName:         envDefault("SESSION_COOKIE_NAME", "upskill_session"),
		SessionTTLHours:           envIntDefault("SESSION_TTL_HOURS", 24),
		InternalAPIKey:            os.Getenv("INTERNAL_API_KEY"),
		RedisAddr:                 os.Getenv("REDIS_ADDR"),
		RedisPassword:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:                   envIntDefault("REDIS_DB", 0),
		S3Endpoint:                os.Getenv("S3_ENDPOINT"),
		S3Bucket:                  os.Getenv("S3_BUCKET"),
		AWSRegion:                 os.Getenv("AWS_REGION"),
		AWSAccessKeyID:            os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:        os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSSessionToken:           os.Getenv("AWS_SESSION_TOKEN"),
		AWSSecretsManagerEndpoint: os.Getenv("AWS_SECRETS_MANAGER_ENDPOINT"),
		PostgresDSNSecretID:       os.Getenv("POSTGRES_DSN_SECRET_ID"),
		UploadURLMaxSecs:          envIntDefault("UPLOAD_URL_MAX_SECONDS", 900),
		DownloadURLMaxSecs:        envIntDefault("DOWNLOAD_URL_MAX_SECONDS", 3600),
		ReportPolicyPath:          os.Getenv("REPORT_POLICY_PATH"),
		RateLimitRequests:         envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds:    envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFailClosed:       envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:          envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c Config) AuthTimeout() time.Duration {
	return time.Duration(c.AuthTimeoutSecs) * time.Second
}

func (c Config) JWKSCacheTTL() time.Duration {
	return time.Duration(c.JWKSCacheTTLSecs) * time.Second
}

func (c Config) UploadURLMax() time.Duration {
	return time.Duration(c.UploadURLMaxSecs) * time.Second
}

func (c Config) DownloadURLMax() time.Duration {
	return time.Duration(c.DownloadURLMaxSecs) * time.Second
}
