package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignHMAC returns lowercase hex of HMAC-SHA256 over body, sent in the
// X-Signature header.
func SignHMAC(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return fmt.Sprintf("%x", mac.Sum(nil))
}

// VerifyHMAC checks a received signature against the shared secret in
// constant time.
func VerifyHMAC(secret string, body []byte, provided string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)
	b, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, b)
}
