package gmailapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	syncdomain "emailbudget-backend/internal/gmailsync/domain"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const user = "me"

// Client implements the mail API surface over the Gmail REST API. The
// caller supplies an already-valid access token; refresh is handled one
// layer up so a 401 here is a real signal, not a routine refresh.
type Client struct {
	srv *gmail.Service
}

// NewClient creates a Gmail client bound to a bearer token.
func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	srv, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv}, nil
}

func (c *Client) Profile() (*syncdomain.Profile, error) {
	profile, err := c.srv.Users.GetProfile(user).Do()
	if err != nil {
		return nil, classify(err, false)
	}
	return &syncdomain.Profile{
		EmailAddress: profile.EmailAddress,
		HistoryID:    profile.HistoryId,
	}, nil
}

func (c *Client) ListMessages(query, pageToken string, pageSize int64) (*syncdomain.MessagePage, error) {
	call := c.srv.Users.Messages.List(user).Q(query).MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, classify(err, false)
	}

	page := &syncdomain.MessagePage{NextPageToken: resp.NextPageToken}
	for _, msg := range resp.Messages {
		page.Messages = append(page.Messages, syncdomain.MessageRef{ID: msg.Id})
	}
	return page, nil
}

func (c *Client) GetMessage(id string) (*syncdomain.Message, error) {
	msg, err := c.srv.Users.Messages.Get(user, id).Format("full").Do()
	if err != nil {
		return nil, classify(err, false)
	}
	return &syncdomain.Message{
		ID:       msg.Id,
		From:     header(msg.Payload, "From"),
		Subject:  header(msg.Payload, "Subject"),
		HTMLBody: extractHTMLBody(msg.Payload),
	}, nil
}

func (c *Client) ListHistory(startHistoryID uint64, pageToken string) (*syncdomain.HistoryPage, error) {
	call := c.srv.Users.History.List(user).
		StartHistoryId(startHistoryID).
		HistoryTypes("messageAdded")
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, classify(err, true)
	}

	page := &syncdomain.HistoryPage{
		HistoryID:     resp.HistoryId,
		NextPageToken: resp.NextPageToken,
	}
	for _, h := range resp.History {
		for _, added := range h.MessagesAdded {
			if added.Message != nil {
				page.AddedMessages = append(page.AddedMessages, syncdomain.MessageRef{ID: added.Message.Id})
			}
		}
	}
	return page, nil
}

// classify maps Gmail API status codes onto the sentinel errors the sync
// engine branches on. A 404 only means cursor expiry on history listings.
func classify(err error, historyCall bool) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", syncdomain.ErrRateLimited, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", syncdomain.ErrAuthExpired, err)
	case http.StatusNotFound:
		if historyCall {
			return fmt.Errorf("%w: %v", syncdomain.ErrHistoryExpired, err)
		}
	}
	return err
}

func header(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}
