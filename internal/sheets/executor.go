package sheets

import (
	"context"
	"log/slog"

	"bizbook/internal/token"
)

// Executor wraps remote calls with the token lifecycle: it ensures a valid
// access token before the call and, when the call fails with an
// authorization error, re-authenticates once and retries exactly once.
// Everything else propagates on first failure.
type Executor struct {
	cache *token.Cache
	auth  token.Authenticator
}

func NewExecutor(cache *token.Cache, auth token.Authenticator) *Executor {
	return &Executor{cache: cache, auth: auth}
}

// Do runs op with a valid token. A failed interactive login propagates
// immediately; it is never retried. An authorization failure from op
// invalidates the cache, authenticates once and retries op once with the new
// token. The retried attempt's error, auth-class or not, is returned as is.
func (e *Executor) Do(ctx context.Context, op func(ctx context.Context, tok token.Token) error) error {
	tok, ok := e.cache.Get()
	if !ok {
		var err error
		tok, err = e.auth.Authenticate(ctx)
		if err != nil {
			return err
		}
	}

	err := op(ctx, tok)
	if err == nil || !IsAuthError(err) {
		return err
	}

	slog.WarnContext(ctx, "Remote call rejected, re-authenticating", "error", err)
	e.cache.Invalidate()
	tok, authErr := e.auth.Authenticate(ctx)
	if authErr != nil {
		return authErr
	}
	return op(ctx, tok)
}
