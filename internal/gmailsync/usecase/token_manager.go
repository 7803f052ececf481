package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"emailbudget-backend/internal/gmailsync/domain"
	"emailbudget-backend/internal/gmailsync/repository"
	"emailbudget-backend/pkg/oauth"
)

// expiryBuffer is how close to expiry an access token may get before a
// refresh is forced. A token valid for less than this is treated as
// already stale so it cannot expire mid-request.
const expiryBuffer = 60 * time.Second

// TokenManager owns the OAuth token lifecycle for the linked mail
// account: connect, proactive refresh, disconnect.
type TokenManager struct {
	tokens      repository.TokenRepository
	credentials repository.CredentialsRepository
	oauth       *oauth.Service

	// Fallback client registration from the environment, used when the
	// user hasn't stored their own.
	envClientID     string
	envClientSecret string

	// onAuthRequired fires when a refresh fails and the user must
	// re-authorize interactively.
	onAuthRequired func()
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(
	tokens repository.TokenRepository,
	credentials repository.CredentialsRepository,
	oauthService *oauth.Service,
	envClientID, envClientSecret string,
) *TokenManager {
	return &TokenManager{
		tokens:          tokens,
		credentials:     credentials,
		oauth:           oauthService,
		envClientID:     envClientID,
		envClientSecret: envClientSecret,
	}
}

// SetAuthRequiredHook registers a callback invoked when re-authorization
// becomes necessary.
func (m *TokenManager) SetAuthRequiredHook(fn func()) {
	m.onAuthRequired = fn
}

func (m *TokenManager) clientRegistration() (string, string, error) {
	creds, err := m.credentials.Get(domain.LocalUserID)
	if err != nil {
		return "", "", err
	}
	if creds != nil && creds.ClientID != "" {
		return creds.ClientID, creds.ClientSecret, nil
	}
	if m.envClientID != "" {
		return m.envClientID, m.envClientSecret, nil
	}
	return "", "", fmt.Errorf("%w: no OAuth client configured", domain.ErrAuthRequired)
}

// GetValidAccessToken returns an access token guaranteed to outlive the
// expiry buffer, refreshing it first when needed.
func (m *TokenManager) GetValidAccessToken(ctx context.Context) (string, error) {
	stored, err := m.tokens.Get(domain.LocalUserID)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", domain.ErrNotConnected
	}

	if time.Until(stored.ExpiresAt) > expiryBuffer {
		return stored.AccessToken, nil
	}
	return m.refresh(ctx, stored)
}

// ForceRefresh discards the cached access token and refreshes
// unconditionally, for when the provider has already rejected it.
func (m *TokenManager) ForceRefresh(ctx context.Context) (string, error) {
	stored, err := m.tokens.Get(domain.LocalUserID)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", domain.ErrNotConnected
	}
	return m.refresh(ctx, stored)
}

func (m *TokenManager) refresh(ctx context.Context, stored *domain.TokenSet) (string, error) {
	if stored.RefreshToken == "" {
		m.notifyAuthRequired()
		return "", fmt.Errorf("%w: no refresh token stored", domain.ErrAuthRequired)
	}

	clientID, clientSecret, err := m.clientRegistration()
	if err != nil {
		return "", err
	}

	token, err := m.oauth.Refresh(ctx, clientID, clientSecret, stored.RefreshToken)
	if err != nil {
		log.Printf("[TokenManager] refresh failed: %v", err)
		m.notifyAuthRequired()
		return "", fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	}

	if err := m.tokens.UpdateAccess(stored.UserID, token.AccessToken, token.Expiry); err != nil {
		return "", err
	}
	log.Printf("[TokenManager] access token refreshed, valid until %s", token.Expiry.Format(time.RFC3339))
	return token.AccessToken, nil
}

func (m *TokenManager) notifyAuthRequired() {
	if m.onAuthRequired != nil {
		m.onAuthRequired()
	}
}

// BeginConnect starts an authorization attempt and returns the consent URL
// the user must visit.
func (m *TokenManager) BeginConnect() (*oauth.Flow, error) {
	clientID, clientSecret, err := m.clientRegistration()
	if err != nil {
		return nil, err
	}
	return m.oauth.Begin(clientID, clientSecret), nil
}

// CompleteConnect waits for the loopback callback, exchanges the code, and
// persists the resulting token set together with the account address.
func (m *TokenManager) CompleteConnect(ctx context.Context, flow *oauth.Flow, accountEmail func(accessToken string) (string, error)) (*domain.TokenSet, error) {
	code, err := m.oauth.WaitForCallback(ctx, flow)
	if err != nil {
		return nil, err
	}

	token, err := m.oauth.Exchange(ctx, flow, code)
	if err != nil {
		return nil, err
	}

	stored := &domain.TokenSet{
		UserID:       domain.LocalUserID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	if accountEmail != nil {
		email, err := accountEmail(token.AccessToken)
		if err != nil {
			log.Printf("[TokenManager] could not resolve account email: %v", err)
		} else {
			stored.AccountEmail = email
		}
	}

	if err := m.tokens.Save(stored); err != nil {
		return nil, err
	}
	log.Printf("[TokenManager] connected account %s", stored.AccountEmail)
	return stored, nil
}

// Disconnect revokes the tokens best-effort and always deletes them
// locally.
func (m *TokenManager) Disconnect(ctx context.Context) error {
	stored, err := m.tokens.Get(domain.LocalUserID)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	if err := m.oauth.Revoke(ctx, stored.RefreshToken); err != nil {
		log.Printf("[TokenManager] revoke failed (continuing with local delete): %v", err)
	}
	return m.tokens.Delete(stored.UserID)
}
