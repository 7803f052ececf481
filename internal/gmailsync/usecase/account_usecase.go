package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"emailbudget-backend/internal/gmailsync/domain"
	"emailbudget-backend/internal/gmailsync/repository"
)

// connectTimeout bounds how long the loopback listener waits for the user
// to finish the browser consent flow.
const connectTimeout = 5 * time.Minute

// AccountUsecase manages the linked mail account: the connect flow, sender
// filters, client credentials, and full-resync resets.
type AccountUsecase struct {
	tokens      *TokenManager
	tokenRepo   repository.TokenRepository
	credentials repository.CredentialsRepository
	filters     repository.SenderFilterRepository
	state       repository.SyncStateRepository
	processed   repository.ProcessedMessageRepository
	newMailAPI  MailAPIFactory
}

// NewAccountUsecase creates a new AccountUsecase.
func NewAccountUsecase(
	tokens *TokenManager,
	tokenRepo repository.TokenRepository,
	credentials repository.CredentialsRepository,
	filters repository.SenderFilterRepository,
	state repository.SyncStateRepository,
	processed repository.ProcessedMessageRepository,
	newMailAPI MailAPIFactory,
) *AccountUsecase {
	return &AccountUsecase{
		tokens:      tokens,
		tokenRepo:   tokenRepo,
		credentials: credentials,
		filters:     filters,
		state:       state,
		processed:   processed,
		newMailAPI:  newMailAPI,
	}
}

// ConnectInfo describes the linked account for status reporting.
type ConnectInfo struct {
	Connected    bool   `json:"connected"`
	AccountEmail string `json:"account_email,omitempty"`
}

// Connect runs the full authorization flow: consent URL, loopback
// callback, code exchange, token persistence. Blocks until the user
// completes or abandons the browser flow. The consent URL is reported
// through onAuthURL so the caller can surface it before blocking.
func (a *AccountUsecase) Connect(ctx context.Context, onAuthURL func(url string)) (*ConnectInfo, error) {
	flow, err := a.tokens.BeginConnect()
	if err != nil {
		return nil, err
	}
	if onAuthURL != nil {
		onAuthURL(flow.AuthURL)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	stored, err := a.tokens.CompleteConnect(ctx, flow, func(accessToken string) (string, error) {
		api, err := a.newMailAPI(ctx, accessToken)
		if err != nil {
			return "", err
		}
		profile, err := api.Profile()
		if err != nil {
			return "", err
		}
		return profile.EmailAddress, nil
	})
	if err != nil {
		return nil, err
	}

	return &ConnectInfo{Connected: true, AccountEmail: stored.AccountEmail}, nil
}

// Disconnect revokes and deletes tokens, and clears sync state so a future
// reconnect starts from a clean backfill.
func (a *AccountUsecase) Disconnect(ctx context.Context) error {
	if err := a.tokens.Disconnect(ctx); err != nil {
		return err
	}
	return a.state.Reset(domain.LocalUserID)
}

// Info reports whether an account is linked and which one.
func (a *AccountUsecase) Info() (*ConnectInfo, error) {
	token, err := a.tokenRepo.Get(domain.LocalUserID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return &ConnectInfo{}, nil
	}
	return &ConnectInfo{Connected: true, AccountEmail: token.AccountEmail}, nil
}

// SaveCredentials stores a user-supplied OAuth client registration.
func (a *AccountUsecase) SaveCredentials(clientID, clientSecret string) error {
	return a.credentials.Save(&domain.OAuthCredentials{
		UserID:       domain.LocalUserID,
		ClientID:     strings.TrimSpace(clientID),
		ClientSecret: strings.TrimSpace(clientSecret),
	})
}

// HasCredentials reports whether a stored client registration exists; the
// secret itself is never returned.
func (a *AccountUsecase) HasCredentials() (bool, error) {
	creds, err := a.credentials.Get(domain.LocalUserID)
	if err != nil {
		return false, err
	}
	return creds != nil && creds.ClientID != "", nil
}

// DeleteCredentials removes the stored client registration, falling back
// to the environment one if configured.
func (a *AccountUsecase) DeleteCredentials() error {
	return a.credentials.Delete(domain.LocalUserID)
}

// ResetSync clears the cursor and the processed-message set. The next
// cycle refetches the whole lookback window; fingerprint dedup keeps the
// refetch from double-importing.
func (a *AccountUsecase) ResetSync() error {
	if err := a.state.Reset(domain.LocalUserID); err != nil {
		return err
	}
	if err := a.processed.Clear(domain.LocalUserID); err != nil {
		return err
	}
	log.Printf("[Account] sync state reset, next cycle runs a full backfill")
	return nil
}

// ListFilters returns all sender filters.
func (a *AccountUsecase) ListFilters() ([]domain.SenderFilter, error) {
	return a.filters.List(domain.LocalUserID)
}

// AddFilter creates an enabled filter for a sender address.
func (a *AccountUsecase) AddFilter(emailAddress, description string) (*domain.SenderFilter, error) {
	filter := &domain.SenderFilter{
		UserID:       domain.LocalUserID,
		EmailAddress: strings.ToLower(strings.TrimSpace(emailAddress)),
		Description:  description,
		Enabled:      true,
	}
	if err := a.filters.Create(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// SetFilterEnabled toggles a filter.
func (a *AccountUsecase) SetFilterEnabled(id string, enabled bool) error {
	return a.filters.SetEnabled(domain.LocalUserID, id, enabled)
}

// DeleteFilter removes a filter.
func (a *AccountUsecase) DeleteFilter(id string) error {
	return a.filters.Delete(domain.LocalUserID, id)
}
