// ABOUTME: Debug logger for the TUI that writes slog records to a log file
// ABOUTME: Keeps diagnostics off the terminal while the alternate screen is active

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/logger"
)

var (
	logFile *os.File
	mu      sync.Mutex
)

// Init points the default slog logger at debug.log in configDir.
// If configDir is empty, logging is discarded.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		logger.Init(io.Discard)
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		logger.Init(io.Discard)
		return err
	}

	f, err := os.OpenFile(Path(configDir), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		logger.Init(io.Discard)
		return err
	}

	logFile = f
	logger.Init(f)
	return nil
}

// Path is where Init writes for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "debug.log")
}

// Close closes the log file and discards further records
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Error logs an error with context
func Error(context string, err error) {
	if err == nil {
		return
	}
	slog.Error(context, "error", err)
}
