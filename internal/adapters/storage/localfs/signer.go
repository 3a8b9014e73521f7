package localfs

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signer issues expiring URLs for stored etiquetas. Links are only handed to
// the order owner and to the production inbox, never listed publicly.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	if secret == "" {
		secret = "dev"
	}
	return &Signer{secret: []byte(secret), now: time.Now}
}

func (s *Signer) sign(path string, exp int64) string {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s|%d", path, exp)
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// SignedPath returns "/files/<path>?exp=...&sig=..." valid for ttl.
func (s *Signer) SignedPath(path string, ttl time.Duration) string {
	exp := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(path, exp))
	return "/files/" + path + "?" + q.Encode()
}

// Verify checks the signature and that the link has not expired.
func (s *Signer) Verify(path, expStr, sig string) bool {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(s.sign(path, exp)), []byte(sig))
}
