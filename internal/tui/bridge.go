package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lu-zhengda/cleanslim/internal/engine"
)

type eventMsg struct {
	event engine.Event
}

// bridge forwards engine events into the bubbletea loop. Completion events
// pass through engine.Floor so very fast phases stay visible.
type bridge struct {
	events      chan engine.Event
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

func newBridge(e *engine.Engine, minDuration time.Duration) *bridge {
	b := &bridge{
		events: make(chan engine.Event, 64),
		done:   make(chan struct{}),
	}
	b.unsubscribe = e.Subscribe(engine.Floor(minDuration, minDuration, b.forward))
	return b
}

func (b *bridge) forward(ev engine.Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

// wait returns a command that delivers the next engine event.
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-b.events:
			return eventMsg{event: ev}
		case <-b.done:
			return nil
		}
	}
}

func (b *bridge) close() {
	b.once.Do(func() {
		b.unsubscribe()
		close(b.done)
	})
}
