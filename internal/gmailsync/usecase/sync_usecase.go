package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"emailbudget-backend/internal/categorizer"
	"emailbudget-backend/internal/gmailsync/domain"
	"emailbudget-backend/internal/gmailsync/repository"
	txdomain "emailbudget-backend/internal/transaction/domain"
	txrepository "emailbudget-backend/internal/transaction/repository"
	"emailbudget-backend/pkg/gmailapi"
	"emailbudget-backend/pkg/receipt"
)

const listPageSize = 100

// MailAPIFactory builds a mail client bound to a bearer token. Injected so
// tests can substitute a fake provider.
type MailAPIFactory func(ctx context.Context, accessToken string) (domain.MailAPI, error)

// SyncUsecase drives sync cycles against the mail provider: cursor
// management, per-message processing, and status reporting.
type SyncUsecase struct {
	tokens       *TokenManager
	state        repository.SyncStateRepository
	processed    repository.ProcessedMessageRepository
	filters      repository.SenderFilterRepository
	transactions txrepository.TransactionRepository
	resolver     *categorizer.Resolver
	extractor    *receipt.Engine
	newMailAPI   MailAPIFactory
	lookbackDays int

	mu     sync.Mutex
	status domain.SyncStatus
	detail string
}

// NewSyncUsecase creates a new SyncUsecase.
func NewSyncUsecase(
	tokens *TokenManager,
	state repository.SyncStateRepository,
	processed repository.ProcessedMessageRepository,
	filters repository.SenderFilterRepository,
	transactions txrepository.TransactionRepository,
	resolver *categorizer.Resolver,
	newMailAPI MailAPIFactory,
	lookbackDays int,
) *SyncUsecase {
	return &SyncUsecase{
		tokens:       tokens,
		state:        state,
		processed:    processed,
		filters:      filters,
		transactions: transactions,
		resolver:     resolver,
		extractor:    receipt.NewEngine(),
		newMailAPI:   newMailAPI,
		lookbackDays: lookbackDays,
		status:       domain.StatusIdle,
	}
}

func (u *SyncUsecase) setStatus(status domain.SyncStatus, detail string) {
	u.mu.Lock()
	u.status = status
	u.detail = detail
	u.mu.Unlock()
}

// Status reports the current engine state and last completed sync time.
func (u *SyncUsecase) Status() domain.SyncStatusReport {
	u.mu.Lock()
	report := domain.SyncStatusReport{Status: u.status, Detail: u.detail}
	u.mu.Unlock()

	if state, err := u.state.Get(domain.LocalUserID); err == nil && state != nil {
		report.LastSyncAt = state.LastSyncAt
	}
	return report
}

// RunCycle executes one sync cycle. Rate limiting ends the cycle early with
// a partial result and no error; auth failure is returned so the poller can
// stop; other failures land in the result's error list.
func (u *SyncUsecase) RunCycle(ctx context.Context) (*domain.SyncCycleResult, error) {
	u.setStatus(domain.StatusSyncing, "")
	result := &domain.SyncCycleResult{}

	err := u.runCycle(ctx, result, false)
	switch {
	case err == nil:
		u.setStatus(domain.StatusIdle, "")
		now := time.Now()
		if stateErr := u.state.TouchLastSync(domain.LocalUserID, now); stateErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record last sync time: %v", stateErr))
		}
		log.Printf("[Sync] cycle complete: %d new, %d duplicates, %d processed, %d errors",
			result.NewTransactions, result.DuplicatesSkipped, result.EmailsProcessed, len(result.Errors))
		return result, nil

	case errors.Is(err, domain.ErrRateLimited):
		// Not retried within the cycle; the next scheduled cycle picks up.
		u.setStatus(domain.StatusRateLimited, err.Error())
		log.Printf("[Sync] rate limited, deferring to next cycle")
		return result, nil

	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrNotConnected):
		u.setStatus(domain.StatusAuthRequired, err.Error())
		return result, err

	default:
		u.setStatus(domain.StatusError, err.Error())
		log.Printf("[Sync] cycle failed: %v", err)
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
}

// runCycle determines the mode and walks the message listing. retried
// guards the single mid-cycle recovery from a rejected access token.
func (u *SyncUsecase) runCycle(ctx context.Context, result *domain.SyncCycleResult, retried bool) error {
	accessToken, err := u.tokens.GetValidAccessToken(ctx)
	if err != nil {
		return err
	}

	api, err := u.newMailAPI(ctx, accessToken)
	if err != nil {
		return err
	}

	state, err := u.state.Get(domain.LocalUserID)
	if err != nil {
		return err
	}

	if state != nil && state.HistoryID != nil && state.InitialSyncComplete {
		err = u.incrementalSync(api, *state.HistoryID, result)
		if errors.Is(err, domain.ErrHistoryExpired) {
			// Stale cursor: clear it and backfill within the same cycle.
			// The processed set survives, so nothing is imported twice.
			log.Printf("[Sync] history cursor expired, falling back to initial sync")
			if resetErr := u.state.Reset(domain.LocalUserID); resetErr != nil {
				return resetErr
			}
			err = u.initialSync(api, result)
		}
	} else {
		err = u.initialSync(api, result)
	}

	if errors.Is(err, domain.ErrAuthExpired) && !retried {
		// The provider rejected a token we thought was fresh. One forced
		// refresh, then the cycle restarts; repeat failures surface as
		// ErrAuthRequired from the refresh itself.
		log.Printf("[Sync] access token rejected mid-cycle, forcing refresh")
		if _, refreshErr := u.tokens.ForceRefresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return u.runCycle(ctx, result, true)
	}
	return err
}

// initialSync backfills messages from enabled senders over the lookback
// window, then captures the provider's current cursor so future cycles can
// run incrementally.
func (u *SyncUsecase) initialSync(api domain.MailAPI, result *domain.SyncCycleResult) error {
	senders, err := u.filters.EnabledAddresses(domain.LocalUserID)
	if err != nil {
		return err
	}
	if len(senders) == 0 {
		log.Printf("[Sync] no enabled sender filters, nothing to backfill")
		return nil
	}

	// The profile cursor is captured before listing; messages arriving
	// during the backfill are seen again by the first incremental cycle
	// and dropped there by the processed-message check.
	profile, err := api.Profile()
	if err != nil {
		return err
	}

	query := gmailapi.InitialSyncQuery(senders, u.lookbackDays, time.Now())
	log.Printf("[Sync] initial sync: %s", query)

	pageToken := ""
	for {
		page, err := api.ListMessages(query, pageToken, listPageSize)
		if err != nil {
			return err
		}
		for _, ref := range page.Messages {
			if err := u.processMessage(api, ref.ID, senders, result); err != nil {
				return err
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return u.state.SaveCursor(domain.LocalUserID, profile.HistoryID, true)
}

// incrementalSync lists changes since the stored cursor and advances it to
// the newest position observed.
func (u *SyncUsecase) incrementalSync(api domain.MailAPI, startHistoryID uint64, result *domain.SyncCycleResult) error {
	senders, err := u.filters.EnabledAddresses(domain.LocalUserID)
	if err != nil {
		return err
	}

	latest := startHistoryID
	pageToken := ""
	for {
		page, err := api.ListHistory(startHistoryID, pageToken)
		if err != nil {
			return err
		}
		if page.HistoryID > latest {
			latest = page.HistoryID
		}
		for _, ref := range page.AddedMessages {
			if err := u.processMessage(api, ref.ID, senders, result); err != nil {
				return err
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if latest != startHistoryID {
		return u.state.SaveCursor(domain.LocalUserID, latest, true)
	}
	return nil
}

// processMessage runs the per-message pipeline. Every terminal path marks
// the message processed so it is never fetched again; parse failures are
// permanent skips, not retries. Returned errors are provider-level
// (rate limit, auth) and abort the cycle; per-message failures go into the
// result's error list instead.
func (u *SyncUsecase) processMessage(api domain.MailAPI, messageID string, senders []string, result *domain.SyncCycleResult) error {
	seen, err := u.processed.Contains(domain.LocalUserID, messageID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	msg, err := api.GetMessage(messageID)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrAuthExpired) {
			return err
		}
		result.Errors = append(result.Errors, fmt.Sprintf("fetch %s: %v", messageID, err))
		return nil
	}
	result.EmailsProcessed++

	if !senderEnabled(msg.From, senders) {
		return u.markProcessed(messageID, result)
	}

	if msg.HTMLBody == "" {
		return u.markProcessed(messageID, result)
	}

	outcome := u.extractor.Extract(msg.HTMLBody)
	if outcome.Result != receipt.Recognized {
		// Permanently handled; the body will not parse better next cycle.
		return u.markProcessed(messageID, result)
	}

	if err := u.importTransaction(outcome.Transaction, result); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("import %s: %v", messageID, err))
	}
	return u.markProcessed(messageID, result)
}

// importTransaction dedupes, categorizes and inserts one extracted
// transaction.
func (u *SyncUsecase) importTransaction(extracted *receipt.Transaction, result *domain.SyncCycleResult) error {
	hash := extracted.SourceHash()
	exists, err := u.transactions.ExistsBySourceHash(domain.LocalUserID, hash)
	if err != nil {
		return err
	}
	if exists {
		result.DuplicatesSkipped++
		return nil
	}

	merchantNormalized := extracted.MerchantNormalized()
	categoryID, err := u.resolver.Resolve(domain.LocalUserID, merchantNormalized, extracted.Provider)
	if err != nil {
		return err
	}

	stored := &txdomain.Transaction{
		UserID:             domain.LocalUserID,
		CategoryID:         categoryID,
		Merchant:           extracted.Merchant,
		MerchantNormalized: merchantNormalized,
		AmountCents:        extracted.AmountCents,
		TransactionDate:    extracted.TransactionDate,
		Provider:           extracted.Provider,
		SourceHash:         hash,
		Confidence:         extracted.Confidence,
		RawText:            extracted.RawText,
	}
	for _, item := range extracted.Items {
		stored.Items = append(stored.Items, txdomain.TransactionItem{
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			TotalPriceCents: item.TotalPriceCents,
		})
	}

	if err := u.transactions.Create(stored); err != nil {
		return err
	}
	result.NewTransactions++
	return nil
}

// markProcessed records the message id; a failure here is reported but
// does not abort the cycle.
func (u *SyncUsecase) markProcessed(messageID string, result *domain.SyncCycleResult) error {
	if err := u.processed.Add(domain.LocalUserID, messageID); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("mark processed %s: %v", messageID, err))
	}
	return nil
}

func senderEnabled(from string, senders []string) bool {
	address := gmailapi.SenderAddress(from)
	for _, s := range senders {
		if address == s {
			return true
		}
	}
	return false
}
