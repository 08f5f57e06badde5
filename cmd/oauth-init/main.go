// Command oauth-init runs the interactive consent flow once and seeds the
// token cache file, so headless deployments never need a browser.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"

	"bizbook/internal/config"
	"bizbook/internal/token"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	b, err := cfg.OAuthClientJSON()
	if err != nil {
		log.Fatalf("load client credentials: %v", err)
	}

	oauthCfg, err := google.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		log.Fatalf("oauth config: %v", err)
	}

	// Local server for the redirect URI; the OAuth client must list
	// http://localhost<addr>/callback as an authorized redirect URI.
	addr := cfg.OAuthRedirectAddr
	oauthCfg.RedirectURL = "http://localhost" + addr + "/callback"

	codeCh := make(chan string, 1)
	srv := &http.Server{Addr: addr}
	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		codeCh <- code
		go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
	})
	go func() { _ = srv.ListenAndServe() }()

	url := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL to authorize:\n%s\n", url)

	select {
	case code := <-codeCh:
		tok, err := oauthCfg.Exchange(context.Background(), code)
		if err != nil {
			log.Fatalf("token exchange: %v", err)
		}
		expiry := tok.Expiry
		if expiry.IsZero() {
			expiry = time.Now().Add(time.Hour)
		}
		store := token.NewFileStore(cfg.TokenCachePath)
		if err := store.Save(token.Token{Value: tok.AccessToken, ExpiresAt: expiry}); err != nil {
			log.Fatalf("write token: %v", err)
		}
		fmt.Printf("Saved token to %s\n", cfg.TokenCachePath)
	case <-time.After(5 * time.Minute):
		log.Fatalf("authorization timed out")
	case <-signalChan():
		log.Fatalf("interrupted")
	}
}

func signalChan() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	return c
}
