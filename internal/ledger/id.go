package ledger

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// maxIDAttempts bounds the collision retry loop. With a 128-bit random
// namespace a retry should never be observed; the bound exists so a broken
// generator surfaces as ErrIDSpaceExhausted instead of looping forever.
const maxIDAttempts = 5

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newTxID returns an id like "TX" + 26 uppercase base32 chars drawn from a
// random UUID. Uppercase keeps ids paste-safe for operators.
func newTxID() string {
	u := uuid.New()
	return "TX" + strings.ToUpper(idEncoding.EncodeToString(u[:]))
}

// normalizeID maps operator input to the stored id form. Every lookup path
// must go through it so a pasted id resolves the same way everywhere.
func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
