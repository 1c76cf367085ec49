// Package console is the admin console layer over the REST client: moderation
// queue views, the cached dashboard and the seller add-pet gate. Rendering is
// left to the caller.
package console

import (
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces non-fatal messages to the operator.
type Notifier interface {
	Notify(level Level, message string)
}

type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}

// LogNotifier writes notices to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		n.log.Error(message)
	case LevelWarning:
		n.log.Warn(message)
	default:
		n.log.Info(message)
	}
}

// Notice is one recorded message.
type Notice struct {
	Level   Level
	Message string
}

// Inbox collects notices in memory until drained.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
}

func (b *Inbox) Notify(level Level, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{Level: level, Message: message})
}

func (b *Inbox) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NotifierFunc(func(Level, string) {})
	}
	return n
}
