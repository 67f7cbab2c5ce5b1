package cache

import "time"

// Sweeper is implemented by caches that can drop expired entries.
type Sweeper interface {
	Sweep() int
}

// Manager periodically sweeps expired entries from registered caches.
type Manager struct {
	sweepers []Sweeper
	stop     chan struct{}
	done     chan struct{}
}

// NewManager creates an empty cache manager.
func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the sweep rotation. Not safe to call after Start.
func (m *Manager) Register(s Sweeper) {
	m.sweepers = append(m.sweepers, s)
}

// Start launches the background sweep loop.
func (m *Manager) Start(interval time.Duration) {
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, s := range m.sweepers {
				s.Sweep()
			}
		case <-m.stop:
			return
		}
	}
}

// Stop shuts down the sweep loop and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
