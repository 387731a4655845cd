package config

import (
	"strconv"
	"time"

	"github.com/rshade/holdview/internal/cache"
)

// Environment variables read by holdview.
const (
	EnvHome            = "HOLDVIEW_HOME"
	EnvConfig          = "HOLDVIEW_CONFIG"
	EnvURL             = "HOLDVIEW_URL"
	EnvPayloadPath     = "HOLDVIEW_PAYLOAD_PATH"
	EnvTimeout         = "HOLDVIEW_TIMEOUT"
	EnvOutput          = "HOLDVIEW_OUTPUT"
	EnvBaseCurrency    = "HOLDVIEW_BASE_CURRENCY"
	EnvLogLevel        = "HOLDVIEW_LOG_LEVEL"
	EnvLogFormat       = "HOLDVIEW_LOG_FORMAT"
	EnvLogFile         = "HOLDVIEW_LOG_FILE"
	EnvCacheEnabled    = "HOLDVIEW_CACHE_ENABLED"
	EnvCacheDir        = "HOLDVIEW_CACHE_DIR"
	EnvCacheTTLSeconds = "HOLDVIEW_CACHE_TTL_SECONDS"
)

// ApplyEnv overrides configuration values from the environment.
// HOLDVIEW_CACHE_TTL_SECONDS accepts seconds or a duration such as "12h".
// Values that fail to parse are ignored and the existing value is kept.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	str := func(key string, target *string) {
		if v, ok := lookupEnv(key); ok && v != "" {
			*target = v
		}
	}

	str(EnvURL, &c.Source.URL)
	str(EnvPayloadPath, &c.Source.PayloadPath)
	str(EnvOutput, &c.Output.DefaultFormat)
	str(EnvBaseCurrency, &c.Output.BaseCurrency)
	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)
	str(EnvLogFile, &c.Logging.File)
	str(EnvCacheDir, &c.Cache.Directory)

	if v, ok := lookupEnv(EnvTimeout); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Source.Timeout = d
		}
	}
	if v, ok := lookupEnv(EnvCacheEnabled); ok && v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = enabled
		}
	}
	if v, ok := lookupEnv(EnvCacheTTLSeconds); ok && v != "" {
		if ttl, err := cache.ParseTTL(v); err == nil {
			c.Cache.TTLSeconds = ttl
		}
	}
}
