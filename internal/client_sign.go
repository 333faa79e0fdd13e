package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const USER_AGENT = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.230 Mobile Safari/537.36"

// Signer produces the X-Checksum header value the tank service expects on every request.
type Signer interface {
	Sign(url string) string
}

type checksumSigner struct {
	now     func() time.Time
	newUUID func() uuid.UUID
}

func NewChecksumSigner() Signer {
	return &checksumSigner{
		now:     time.Now,
		newUUID: uuid.New,
	}
}

// Sign is not memoizable: each call draws a fresh UUID and reads the clock.
func (s *checksumSigner) Sign(url string) string {
	now := s.now()
	datePart := fmt.Sprintf("%s_%s", now.Format("20060102"), s.newUUID().String())
	timestamp := now.Unix()

	base := fmt.Sprintf("%s/%d/%s/X-Checksum", datePart, timestamp, checksumPath(url))
	hash := sha1.Sum([]byte(base))

	return fmt.Sprintf("%s/%d/%s", datePart, timestamp, hex.EncodeToString(hash[:]))
}

// checksumPath is everything after the third slash of the URL, re-rooted at "/".
func checksumPath(url string) string {
	parts := strings.SplitN(url, "/", 4)
	if len(parts) < 4 {
		return "/"
	}
	return "/" + parts[3]
}

type Checksum struct {
	DatePart  string
	Timestamp int64
	Hash      string
}

func ParseChecksum(token string) (*Checksum, error) {
	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return nil, errors.Newf("checksum must have 3 parts, got %d", len(parts))
	}

	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid checksum timestamp %q", parts[1])
	}

	if len(parts[2]) != sha1.Size*2 {
		return nil, errors.Newf("checksum hash must be %d hex characters", sha1.Size*2)
	}
	if _, err := hex.DecodeString(parts[2]); err != nil {
		return nil, errors.Wrap(err, "checksum hash is not hex")
	}

	return &Checksum{DatePart: parts[0], Timestamp: ts, Hash: parts[2]}, nil
}
