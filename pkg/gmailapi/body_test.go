package gmailapi

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractHTMLBodySinglePart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/html",
		Body:     &gmail.MessagePartBody{Data: b64("<p>hello</p>")},
	}
	if got := extractHTMLBody(payload); got != "<p>hello</p>" {
		t.Errorf("extractHTMLBody = %q", got)
	}
}

func TestExtractHTMLBodyPrefersHTMLOverPlain(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain version")}},
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>html version</p>")}},
		},
	}
	if got := extractHTMLBody(payload); got != "<p>html version</p>" {
		t.Errorf("extractHTMLBody = %q", got)
	}
}

func TestExtractHTMLBodyWalksNestedParts(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: b64("<p>nested</p>")}},
				},
			},
		},
	}
	if got := extractHTMLBody(payload); got != "<p>nested</p>" {
		t.Errorf("extractHTMLBody = %q", got)
	}
}

func TestExtractHTMLBodyFallsBackToPlain(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("plain only")}},
		},
	}
	if got := extractHTMLBody(payload); got != "plain only" {
		t.Errorf("extractHTMLBody = %q", got)
	}
}

func TestSenderAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Amazon <auto-confirm@amazon.com>", "auto-confirm@amazon.com"},
		{"auto-confirm@amazon.com", "auto-confirm@amazon.com"},
		{"  Venmo  <VENMO@venmo.com>  ", "venmo@venmo.com"},
	}
	for _, tc := range cases {
		if got := SenderAddress(tc.in); got != tc.want {
			t.Errorf("SenderAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInitialSyncQuery(t *testing.T) {
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	q := InitialSyncQuery([]string{"a@x.com", "b@y.com"}, 90, now)

	if !strings.HasPrefix(q, "(from:a@x.com OR from:b@y.com)") {
		t.Errorf("query = %q", q)
	}
	if !strings.HasSuffix(q, "after:2024/01/11") {
		t.Errorf("query = %q, want 90-day cutoff", q)
	}

	if got := InitialSyncQuery(nil, 90, now); got != "" {
		t.Errorf("query for no senders = %q, want empty", got)
	}
}
