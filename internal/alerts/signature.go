package alerts

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/Loftsmart/loft73-inventory-server/platform/apperr"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Webhook-Signature"

// Verifier checks webhook payload signatures. An empty secret disables
// verification entirely; signature checks are optional for this relay.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether a signing secret is configured.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Verify compares the base64-encoded HMAC-SHA256 of the body against the
// header value in constant time.
func (v *Verifier) Verify(body []byte, signature string) error {
	if signature == "" {
		return apperr.Unauthorized("missing webhook signature")
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return apperr.Unauthorized("invalid webhook signature")
	}

	return nil
}
