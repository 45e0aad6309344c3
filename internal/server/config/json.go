package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/nileguide/api/internal/flagx"
	"github.com/nileguide/api/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	RedisAddr        string         `json:"redis_addr"`
	JWTSecret        string         `json:"jwt_secret"`
	SessionTTL       timex.Duration `json:"session_ttl"`
	BcryptCost       int            `json:"bcrypt_cost"`
	ResetCodePepper  string         `json:"reset_code_pepper"`
	ResetCodeTTL     timex.Duration `json:"reset_code_ttl"`
	ResetCodeSpace   int64          `json:"reset_code_space"`
	ResetMaxAttempts int            `json:"reset_max_attempts"`
	LoginRateLimit   int            `json:"login_rate_limit"`
	ResetRateLimit   int            `json:"reset_rate_limit"`
	RateLimitWindow  timex.Duration `json:"rate_limit_window"`
	SMTPHost         string         `json:"smtp_host"`
	SMTPPort         string         `json:"smtp_port"`
	SMTPUsername     string         `json:"smtp_username"`
	SMTPPassword     string         `json:"smtp_password"`
	SMTPFrom         string         `json:"smtp_from"`
	SMTPFromName     string         `json:"smtp_from_name"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. A file that cannot be
// read or parsed is a startup failure, so the function panics.
//
// Zero-valued JSON fields do not overwrite defaults, so a partial file only
// overrides what it names.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlayString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlayString(&config.DatabaseDSN, c.DatabaseDSN)
	overlayString(&config.RedisAddr, c.RedisAddr)
	overlayString(&config.JWTSecret, c.JWTSecret)
	overlayDuration(&config.SessionTTL, c.SessionTTL)
	overlayInt(&config.BcryptCost, c.BcryptCost)
	overlayString(&config.ResetCodePepper, c.ResetCodePepper)
	overlayDuration(&config.ResetCodeTTL, c.ResetCodeTTL)
	overlayInt64(&config.ResetCodeSpace, c.ResetCodeSpace)
	overlayInt(&config.ResetMaxAttempts, c.ResetMaxAttempts)
	overlayInt(&config.LoginRateLimit, c.LoginRateLimit)
	overlayInt(&config.ResetRateLimit, c.ResetRateLimit)
	overlayDuration(&config.RateLimitWindow, c.RateLimitWindow)
	overlayString(&config.SMTPHost, c.SMTPHost)
	overlayString(&config.SMTPPort, c.SMTPPort)
	overlayString(&config.SMTPUsername, c.SMTPUsername)
	overlayString(&config.SMTPPassword, c.SMTPPassword)
	overlayString(&config.SMTPFrom, c.SMTPFrom)
	overlayString(&config.SMTPFromName, c.SMTPFromName)
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func overlayInt64(dst *int64, v int64) {
	if v != 0 {
		*dst = v
	}
}

func overlayDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
