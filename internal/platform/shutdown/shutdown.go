package shutdown

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

const DefaultGrace = 15 * time.Second

// NotifyContext is canceled on SIGINT or SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Grace bounds the drain that follows a canceled run context. The returned
// context keeps parent values but not its cancellation.
func Grace(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultGrace
	}
	return context.WithTimeout(context.WithoutCancel(parent), d)
}
