package history

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Entry is one line in the transition history. Sum is the SHA-256 digest
// of the entry's own content including Prev, so each line seals both its
// payload and its link to the line before it.
type Entry struct {
	At        time.Time `json:"at"`
	EventID   string    `json:"event_id"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"` // "success" or "failure"
	ReceiptID string    `json:"receipt_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	Prev      string    `json:"prev"`
	Sum       string    `json:"sum"`
}

// digest computes the entry's content hash. The canonical form is a
// field-separated string, not the JSON line, so re-encoding or
// whitespace changes cannot break the chain while an edit to any field
// (including the receipt id) always does.
func digest(e Entry) string {
	var b strings.Builder
	b.WriteString(e.At.UTC().Format(time.RFC3339Nano))
	for _, f := range []string{e.EventID, e.Action, e.Outcome, e.ReceiptID, e.Error, e.Prev} {
		b.WriteByte(0x1f)
		b.WriteString(f)
	}
	h := sha256.Sum256([]byte(b.String()))
	return "sha256:" + hex.EncodeToString(h[:])
}
