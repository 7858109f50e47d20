package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "PAGEVIEW_HOME"

// home is computed on first use. Tests swap it out through ResetHome.
var home = sync.OnceValue(resolveHome)

// GetHome returns the directory pageview keeps its own files in (logs for now).
// $PAGEVIEW_HOME wins; otherwise it is "pageview" under the user's cache
// directory, or under the temp directory when the platform has none.
func GetHome() string {
	return home()
}

// GetLogsDir returns <home>/logs, where log files go unless --log-file says otherwise.
func GetLogsDir() string {
	return filepath.Join(GetHome(), "logs")
}

func resolveHome() string {
	if dir := os.Getenv(envHome); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "pageview")
}

// ResetHome forgets the resolved home so the next GetHome reads the environment again.
func ResetHome() {
	home = sync.OnceValue(resolveHome)
}
