package cache

import (
	"encoding/binary"
	"errors"
	"time"
)

// MinExpiry is the shortest time a backend keeps an entry.
const MinExpiry = time.Hour

// Encoded entries start with a format byte and the deadline in unix
// seconds.
const (
	entryFormat    byte = 1
	entryHeaderLen      = 1 + 8
)

var ErrBadEntry = errors.New("cache entry is corrupt or in an unknown format")

// Expiry is how long, as of now, a backend should keep an entry with
// the given deadline: twice the time left, and at least MinExpiry.
func Expiry(now, deadline time.Time) time.Duration {
	expiry := deadline.Sub(now) * 2
	if expiry < MinExpiry {
		expiry = MinExpiry
	}
	return expiry
}

// EncodeEntry packs a value and its deadline together, for backends
// that store plain bytes.
func EncodeEntry(deadline time.Time, v []byte) []byte {
	b := make([]byte, entryHeaderLen, entryHeaderLen+len(v))
	b[0] = entryFormat
	binary.BigEndian.PutUint64(b[1:entryHeaderLen], uint64(deadline.Unix()))
	return append(b, v...)
}

// DecodeEntry undoes EncodeEntry.
func DecodeEntry(b []byte) ([]byte, time.Time, error) {
	if len(b) < entryHeaderLen || b[0] != entryFormat {
		return nil, time.Time{}, ErrBadEntry
	}
	deadline := int64(binary.BigEndian.Uint64(b[1:entryHeaderLen]))
	return b[entryHeaderLen:], time.Unix(deadline, 0), nil
}
