package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qkart/qkart/internal/notify"
)

// Relay forwards messages produced outside the bubbletea loop, such as
// debounced search completions and notifications, into the running program.
// Messages sent before Bind are buffered and delivered on Bind.
type Relay struct {
	mu      sync.Mutex
	program *tea.Program
	backlog []tea.Msg
}

func NewRelay() *Relay {
	return &Relay{}
}

// Bind attaches the relay to a program and flushes anything buffered.
func (r *Relay) Bind(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	backlog := r.backlog
	r.backlog = nil
	r.mu.Unlock()
	for _, msg := range backlog {
		p.Send(msg)
	}
}

// Send delivers a message to the program, buffering if not yet bound.
func (r *Relay) Send(msg tea.Msg) {
	r.mu.Lock()
	if r.program == nil {
		r.backlog = append(r.backlog, msg)
		r.mu.Unlock()
		return
	}
	p := r.program
	r.mu.Unlock()
	p.Send(msg)
}

// Notifier returns a notify.Notifier that surfaces messages as toasts.
func (r *Relay) Notifier() notify.Notifier {
	return notify.Func(func(message string, severity notify.Severity) {
		r.Send(ToastMsg{Message: message, Severity: severity})
	})
}
