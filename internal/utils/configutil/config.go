package configutil

import (
	"fmt"
	"os"
	"sync"

	"github.com/theblitlabs/thz-setup/internal/config"
)

// EnvConfigPath names the variable consulted when no --config flag is given.
const EnvConfigPath = "THZ_SETUP_CONFIG_PATH"

var (
	cachedConfig *config.Config
	cachedPath   string
	configMutex  sync.RWMutex
)

// ResolvePath prefers the flag value, then THZ_SETUP_CONFIG_PATH.
// An empty result means built-in defaults.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvConfigPath)
}

// GetConfigWithPath loads the configuration from a specific path, using a
// cached version if the same path was loaded before
func GetConfigWithPath(configPath string) (*config.Config, error) {
	configMutex.RLock()
	if cachedConfig != nil && cachedPath == configPath {
		defer configMutex.RUnlock()
		return cachedConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	// Double-check after acquiring lock
	if cachedConfig != nil && cachedPath == configPath {
		return cachedConfig, nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if configPath == "" {
			return nil, fmt.Errorf("failed to load default config: %w", err)
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	cachedConfig = cfg
	cachedPath = configPath
	return cfg, nil
}

// ClearCache clears the cached configuration
func ClearCache() {
	configMutex.Lock()
	defer configMutex.Unlock()
	cachedConfig = nil
	cachedPath = ""
}
