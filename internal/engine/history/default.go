package history

import "sync"

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide manager, creating it on first use.
// Only the creation is synchronized; the returned manager is no more
// goroutine-safe than any other.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}
