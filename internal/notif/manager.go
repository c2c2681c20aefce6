package notif

import (
	"sort"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"contactdesk/internal/config"
)

// Manager fans submission events out to its observers. Delivery happens on
// the caller's goroutine; a failing observer is logged and skipped.
type Manager struct {
	observers map[string]Observer
	mu        sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		observers: make(map[string]Observer),
	}
}

// NewSubmissionNotifier builds the manager used by the service: the log
// observer always, plus NATS publishing when a connection is available.
func NewSubmissionNotifier(cfg *config.Config, conn *nats.Conn) *Manager {
	m := NewManager()
	m.Subscribe(NewLogObserver(log.Logger))

	if conn != nil {
		m.Subscribe(NewNATSObserver(conn, cfg.Messaging.Subject))
	}
	return m
}

func (m *Manager) Subscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers[observer.Name()] = observer
	log.Debug().Str("observer", observer.Name()).Msg("observer subscribed")
}

func (m *Manager) Unsubscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.observers, observer.Name())
	log.Debug().Str("observer", observer.Name()).Msg("observer unsubscribed")
}

// Observers lists subscribed observer names in sorted order.
func (m *Manager) Observers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.observers))
	for name := range m.observers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) Notify(event SubmissionEvent) {
	m.mu.RLock()
	observers := make([]Observer, 0, len(m.observers))
	for _, obs := range m.observers {
		observers = append(observers, obs)
	}
	m.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Warn().Err(err).
				Str("observer", observer.Name()).
				Str("event", string(event.Type)).
				Str("submission_id", event.SubmissionID).
				Msg("observer update failed")
		}
	}
}
