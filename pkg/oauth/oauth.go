package oauth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GmailReadScope is the only scope requested; the app never writes mail.
const GmailReadScope = "https://www.googleapis.com/auth/gmail.readonly"

const revokeEndpoint = "https://oauth2.googleapis.com/revoke"

// Service drives the Google OAuth authorization-code flow with PKCE and a
// local loopback redirect.
type Service struct {
	callbackPort int
}

// NewService creates a new oauth Service listening for callbacks on the
// given port.
func NewService(callbackPort int) *Service {
	return &Service{callbackPort: callbackPort}
}

func (s *Service) config(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", s.callbackPort),
		Scopes:       []string{GmailReadScope},
	}
}

// Flow is one in-progress authorization attempt. The verifier must be
// presented at exchange time.
type Flow struct {
	AuthURL  string
	State    string
	verifier string
	config   *oauth2.Config
}

// Begin builds the consent URL. Offline access and forced consent are
// required to obtain a refresh token on every connect, not just the first.
func (s *Service) Begin(clientID, clientSecret string) *Flow {
	cfg := s.config(clientID, clientSecret)
	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)

	return &Flow{
		AuthURL:  authURL,
		State:    state,
		verifier: verifier,
		config:   cfg,
	}
}

// WaitForCallback serves exactly one request on the loopback redirect and
// returns the authorization code from it. The server shuts down as soon as
// a code or error parameter arrives.
func (s *Service) WaitForCallback(ctx context.Context, flow *Flow) (string, error) {
	type callbackResult struct {
		code string
		err  error
	}
	resultCh := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errParam := query.Get("error"); errParam != "" {
			http.Error(w, "Authorization failed. You can close this window.", http.StatusBadRequest)
			resultCh <- callbackResult{err: fmt.Errorf("authorization denied: %s", errParam)}
			return
		}
		if query.Get("state") != flow.State {
			http.Error(w, "Invalid state. You can close this window.", http.StatusBadRequest)
			resultCh <- callbackResult{err: fmt.Errorf("state mismatch on oauth callback")}
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			resultCh <- callbackResult{err: fmt.Errorf("callback carried no code")}
			return
		}
		fmt.Fprintln(w, "Connected! You can close this window and return to the app.")
		resultCh <- callbackResult{code: code}
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", s.callbackPort),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-resultCh:
		return result.code, result.err
	case err := <-errCh:
		return "", fmt.Errorf("callback listener failed: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Exchange trades the authorization code for tokens, presenting the PKCE
// verifier from the flow that produced the code.
func (s *Service) Exchange(ctx context.Context, flow *Flow, code string) (*oauth2.Token, error) {
	token, err := flow.config.Exchange(ctx, code, oauth2.VerifierOption(flow.verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	if token.RefreshToken == "" {
		log.Printf("[OAuth] exchange returned no refresh token; reconnect will be required at expiry")
	}
	return token, nil
}

// Refresh exchanges a refresh token for a fresh access token.
func (s *Service) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*oauth2.Token, error) {
	cfg := s.config(clientID, clientSecret)
	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return token, nil
}

// Revoke notifies Google that the token is no longer in use. Best-effort:
// local deletion proceeds regardless of the outcome here.
func (s *Service) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke endpoint returned %d", resp.StatusCode)
	}
	return nil
}
