package domain

import "errors"

// Sentinel errors classifying remote mail API failures. The sync engine
// branches on these rather than on provider status codes or message text.
var (
	// ErrRateLimited maps HTTP 429; the engine defers to the next cycle.
	ErrRateLimited = errors.New("mail provider rate limit exceeded")

	// ErrAuthExpired maps HTTP 401 on an API call; a token refresh is
	// attempted before giving up.
	ErrAuthExpired = errors.New("mail provider rejected credentials")

	// ErrHistoryExpired maps HTTP 404 on a history listing; the stored
	// cursor is stale and a full resync is required.
	ErrHistoryExpired = errors.New("history cursor expired")

	// ErrAuthRequired means no usable token exists and the user must
	// re-authorize interactively.
	ErrAuthRequired = errors.New("authorization required")

	// ErrNotConnected means no mail account has been linked at all.
	ErrNotConnected = errors.New("no mail account connected")
)

// Profile identifies the linked account and the provider's current cursor
// position.
type Profile struct {
	EmailAddress string
	HistoryID    uint64
}

// MessageRef is a message identifier returned by list/history calls; the
// body must be fetched separately.
type MessageRef struct {
	ID string
}

// MessagePage is one page of a message listing.
type MessagePage struct {
	Messages      []MessageRef
	NextPageToken string
}

// HistoryPage is one page of changes since a cursor. HistoryID is the
// latest cursor observed on this page and becomes the new resume point.
type HistoryPage struct {
	AddedMessages []MessageRef
	HistoryID     uint64
	NextPageToken string
}

// Message is a fully fetched message with the fields extraction needs.
type Message struct {
	ID       string
	From     string
	Subject  string
	HTMLBody string
}

// MailAPI is the remote mail provider surface the sync engine consumes.
// Implementations translate provider status codes into the sentinel errors
// above.
type MailAPI interface {
	Profile() (*Profile, error)
	ListMessages(query, pageToken string, pageSize int64) (*MessagePage, error)
	GetMessage(id string) (*Message, error)
	ListHistory(startHistoryID uint64, pageToken string) (*HistoryPage, error)
}
