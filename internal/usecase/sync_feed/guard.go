package sync_feed

import "sync"

// inFlightGuard не допускает параллельных синхронизаций одного фида.
// Защита в памяти процесса: одновременный повторный запрос по тому же
// фиду получает отказ, а не вторую гонку за тем же леджером.
type inFlightGuard struct {
	mu      sync.Mutex
	running map[int64]struct{}
}

func newInFlightGuard() *inFlightGuard {
	return &inFlightGuard{
		running: make(map[int64]struct{}),
	}
}

// TryAcquire пытается занять фид; false - синхронизация уже идет
func (g *inFlightGuard) TryAcquire(feedID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.running[feedID]; busy {
		return false
	}
	g.running[feedID] = struct{}{}
	return true
}

// Release освобождает фид
func (g *inFlightGuard) Release(feedID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.running, feedID)
}
