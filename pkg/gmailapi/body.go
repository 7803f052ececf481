package gmailapi

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

// extractHTMLBody walks the MIME tree for a text/html part, falling back to
// text/plain. Gmail encodes part data as URL-safe base64.
func extractHTMLBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// Single-part messages carry the body on the payload itself.
	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	var htmlBody, plainBody string
	var walk func(parts []*gmail.MessagePart)
	walk = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				data, err := base64.URLEncoding.DecodeString(part.Body.Data)
				if err == nil {
					switch part.MimeType {
					case "text/html":
						if htmlBody == "" {
							htmlBody = string(data)
						}
					case "text/plain":
						if plainBody == "" {
							plainBody = string(data)
						}
					}
				}
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(payload.Parts)

	if htmlBody != "" {
		return htmlBody
	}
	return plainBody
}

// SenderAddress extracts the bare address from a "Name <addr>" From header.
func SenderAddress(from string) string {
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			return strings.ToLower(strings.TrimSpace(from[start+1 : start+end]))
		}
	}
	return strings.ToLower(strings.TrimSpace(from))
}

// InitialSyncQuery builds the Gmail search query for a full backfill: an OR
// of sender clauses bounded to the lookback window.
func InitialSyncQuery(senders []string, lookbackDays int, now time.Time) string {
	if len(senders) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(senders))
	for _, s := range senders {
		clauses = append(clauses, "from:"+s)
	}
	after := now.AddDate(0, 0, -lookbackDays).Format("2006/01/02")
	return fmt.Sprintf("(%s) after:%s", strings.Join(clauses, " OR "), after)
}
