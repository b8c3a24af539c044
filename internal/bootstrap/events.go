package bootstrap

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/internal/event"
)

// InitializeEventSystem builds the in-process bus and the retrying publisher
// that fronts it. Unset event settings take the Event* defaults.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	retries := cmp.Or(cfg.EventMaxRetries, EventDefaultMaxRetries)
	delay := cmp.Or(cfg.EventRetryDelay, EventDefaultRetryDelay)
	deadLetters := cmp.Or(cfg.EventDeadLetterPath, EventDefaultDeadLetterPath)

	if err := os.MkdirAll(filepath.Dir(deadLetters), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
	}

	bus := event.NewMemoryBus()
	pub, err := event.NewResilientPublisher(bus, retries, delay, deadLetters)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreatePublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized, "max_retries", retries, "retry_delay", delay, "deadletter_path", deadLetters)
	return bus, pub, nil
}
