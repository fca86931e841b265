package internal

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	DefaultAppName          = "firefolders"
	DefaultAppCMDShortCut   = "ff"
	DefaultConfigPath       = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")
	DefaultEnvPrefix        = "FIREFOLDERS"

	// Remote defaults match the development backend.
	DefaultRemoteURL            = "http://127.0.0.1:8000"
	DefaultRemoteTimeoutSeconds = 20

	// Only JPEG files are rendered in the pool; HEIC uploads are converted server side.
	DefaultPoolExtensions   = []string{".jpg", ".jpeg"}
	DefaultPoolIgnore       = []string{"metadata.json", "group_names.json", ".*"}
	DefaultUploadExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".heif"}

	DefaultCleanupWorkers = 1
	DefaultLogLevel       = "info"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// NewLogger returns a logger writing to w at the given level. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
