package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "MILKBOOK_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether MILKBOOK_TEST_MODE=1. In test mode the store
// never reaches an external backend.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode updates the cached flag after environment changes.
func RefreshTestMode() {
	detectTestMode()
}

// storeBackend is the backend OpenStore will actually use.
func storeBackend(cfg *Config) string {
	if InTestMode() {
		return BackendMemory
	}
	return cfg.StoreBackend
}
