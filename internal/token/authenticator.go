package token

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"
	gsheet "google.golang.org/api/sheets/v4"
)

// AuthError reports a failed or cancelled interactive consent. It carries the
// provider's error code and message and is never retried automatically.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed: %s", e.Code)
	}
	return fmt.Sprintf("authentication failed: %s: %s", e.Code, e.Message)
}

// Authenticator obtains a new access token. Authenticate blocks until the
// user completes the external consent step or it fails.
type Authenticator interface {
	Authenticate(ctx context.Context) (Token, error)
}

// FlowAuthenticator runs the OAuth authorization-code flow with a local
// redirect listener. The requested scope is exactly the spreadsheets
// capability, nothing broader. On success the token is handed to the cache
// before being returned.
//
// Concurrent Authenticate calls are collapsed into a single flow so a user
// clicking "connect" twice cannot corrupt the cache.
type FlowAuthenticator struct {
	cfg   *oauth2.Config
	cache *Cache
	addr  string
	group singleflight.Group
	now   func() time.Time
}

// NewFlowAuthenticator builds an authenticator from OAuth client credentials
// JSON. addr is the listen address for the consent redirect, e.g. ":8085".
func NewFlowAuthenticator(clientJSON []byte, cache *Cache, addr string) (*FlowAuthenticator, error) {
	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	cfg.RedirectURL = "http://localhost" + addr + "/callback"
	return &FlowAuthenticator{cfg: cfg, cache: cache, addr: addr, now: time.Now}, nil
}

func (a *FlowAuthenticator) Authenticate(ctx context.Context) (Token, error) {
	v, err, _ := a.group.Do("consent", func() (any, error) {
		return a.runFlow(ctx)
	})
	if err != nil {
		return Token{}, err
	}
	return v.(Token), nil
}

func (a *FlowAuthenticator) runFlow(ctx context.Context) (Token, error) {
	resultCh := make(chan consentResult, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: a.addr, Handler: mux}
	mux.HandleFunc("/callback", consentHandler(resultCh))
	go func() { _ = srv.ListenAndServe() }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	url := a.cfg.AuthCodeURL("state-token", oauth2.AccessTypeOnline)
	slog.InfoContext(ctx, "Waiting for spreadsheet consent", "url", url)

	var code string
	select {
	case res := <-resultCh:
		if res.err != "" {
			return Token{}, &AuthError{Code: res.err}
		}
		code = res.code
	case <-ctx.Done():
		return Token{}, &AuthError{Code: "cancelled", Message: ctx.Err().Error()}
	}

	oauthTok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return Token{}, &AuthError{Code: "exchange_failed", Message: err.Error()}
	}

	tok := Token{Value: oauthTok.AccessToken, ExpiresAt: oauthTok.Expiry}
	if tok.ExpiresAt.IsZero() {
		// Some providers omit expiry; assume the usual hour.
		tok.ExpiresAt = a.now().Add(time.Hour)
	}
	if a.cache != nil {
		a.cache.Set(tok)
	}
	return tok, nil
}

type consentResult struct {
	code string
	err  string
}

// consentHandler accepts the OAuth redirect. Only the first callback feeds
// the flow; a user reloading the consent page afterwards is answered and the
// repeat result is dropped instead of blocking the handler.
func consentHandler(results chan<- consentResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := consentResult{
			code: r.URL.Query().Get("code"),
			err:  r.URL.Query().Get("error"),
		}
		if res.err != "" {
			http.Error(w, "OAuth error: "+res.err, http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Connected. You may close this window.")
		}
		select {
		case results <- res:
		default:
		}
	}
}
