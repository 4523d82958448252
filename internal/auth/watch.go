package auth

import (
	"context"
	"time"
)

// Watch calls onExpire once, when tok expires. It never fires for tokens
// without an expiry, fires immediately for expired ones, and is disarmed when
// ctx ends or stop is called.
func Watch(ctx context.Context, tok Token, onExpire func()) (stop func()) {
	if tok.ExpiresAt.IsZero() {
		return func() {}
	}

	timer := time.AfterFunc(time.Until(tok.ExpiresAt), func() {
		if ctx.Err() == nil {
			onExpire()
		}
	})
	stopCtx := context.AfterFunc(ctx, func() { timer.Stop() })

	return func() {
		stopCtx()
		timer.Stop()
	}
}
