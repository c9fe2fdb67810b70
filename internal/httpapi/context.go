package httpapi

import (
	"context"
)

// serverBaseCtx is canceled when the service shuts down. Background until
// SetBaseContext is called.
var serverBaseCtx = context.Background()

// SetBaseContext sets the shutdown context joined into every predict call.
// nil resets it to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context from req that is also canceled when base is
// done. Values come from req. The cancel func must be called when the handler
// returns.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
