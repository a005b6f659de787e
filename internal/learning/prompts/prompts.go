package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Prompt is a rendered system/user pair for one kind.
type Prompt struct {
	Kind    Kind
	Version int
	System  string
	User    string
}

// Fingerprint identifies the rendered prompt without exposing its text. Safe to log.
func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(string(p.Kind) + "|" + strconv.Itoa(p.Version) + "|" + p.System + "|" + p.User))
	return hex.EncodeToString(h[:8])
}
