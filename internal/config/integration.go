package config

import (
	"os"
	"sync"
)

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects GlobalConfig and globalConfigInit
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized

// configPathOverride is set by the --config flag before the global config is first read.
var configPathOverride string //nolint:gochecknoglobals // Set once at startup, read by New

// InitGlobalConfig initializes the global configuration.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	GlobalConfig = New()
	globalConfigInit = true
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigInit = false
	configPathOverride = ""
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// SetConfigPath points the global configuration at an explicit file and reloads it.
func SetConfigPath(path string) {
	globalConfigMu.Lock()
	configPathOverride = path
	globalConfigInit = false
	globalConfigMu.Unlock()

	InitGlobalConfig()
}

// ConfigFilePath returns the config file in effect: the --config flag, then
// HOLDVIEW_CONFIG, then ~/.holdview/config.yaml.
func ConfigFilePath() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return ""
	}
	return path
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetSourceConfig returns a copy of the source section of the global configuration.
func GetSourceConfig() SourceConfig {
	return GetGlobalConfig().Source
}

// GetCacheConfig returns a copy of the cache section of the global configuration.
func GetCacheConfig() CacheConfig {
	return GetGlobalConfig().Cache
}
