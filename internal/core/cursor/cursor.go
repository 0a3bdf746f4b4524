// Package cursor encodes feed positions into opaque, tamper-evident page tokens
//
// A token is base-62 text over payload||tag where tag is the first TagSize bytes of
// HMAC-SHA256(secret, payload). The payload is readable by anyone holding a token; the tag only
// proves the server minted it.
package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/big"
	"time"

	"bazaar/internal/core/ranking"
	perr "bazaar/internal/platform/errors"
)

const (
	// Version leads every payload; a non-zero first byte keeps the big-int round trip lossless
	Version byte = 0x01

	// TagSize is the truncated HMAC length in bytes
	TagSize = 6

	// MinSecretLen is the shortest accepted signing secret
	MinSecretLen = 16

	headerSize = 1 + 1 + 1 + 4 // version, kind, mode, fingerprint
)

// Position is everything a page token carries
type Position struct {
	Kind        uint8
	Mode        ranking.Mode
	Fingerprint uint32
	// Radius is the settled search radius in km, geo modes only
	Radius float64
	Signal ranking.Signal
}

// Codec signs and verifies tokens with one process-wide secret
type Codec struct {
	key []byte
}

// NewCodec copies secret; it must be at least MinSecretLen bytes
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "cursor secret must be at least %d bytes", MinSecretLen)
	}
	return &Codec{key: append([]byte(nil), secret...)}, nil
}

// Fingerprint ties a token to the query it was minted for
func Fingerprint(kind uint8, normalizedSearch string) uint32 {
	h := fnv.New32a()
	h.Write([]byte{kind})
	h.Write([]byte(normalizedSearch))
	return h.Sum32()
}

func payloadSize(m ranking.Mode) int {
	n := headerSize + 8 + 8 // created_at, id
	if m.Geo() {
		n += 8 + 8 // radius, distance
	}
	if m.Search() {
		n += 8
	}
	return n
}

func (c *Codec) tag(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)[:TagSize]
}

// Encode serializes p; fields the mode does not rank by are dropped
func (c *Codec) Encode(p Position) string {
	s := p.Signal.Canonical()
	buf := make([]byte, 0, payloadSize(p.Mode)+TagSize)
	buf = append(buf, Version, p.Kind, byte(p.Mode))
	buf = binary.BigEndian.AppendUint32(buf, p.Fingerprint)
	if p.Mode.Geo() {
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(p.Radius))
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(s.Distance))
	}
	if p.Mode.Search() {
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(s.Relevance))
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(s.CreatedAt.UnixMicro()))
	buf = binary.BigEndian.AppendUint64(buf, uint64(s.ID))
	buf = append(buf, c.tag(buf)...)
	return new(big.Int).SetBytes(buf).Text(62)
}

// Decode verifies and parses token; ok is false for anything this codec did not mint
func (c *Codec) Decode(token string) (p Position, ok bool) {
	raw, ok := fromBase62(token)
	if !ok || len(raw) < headerSize+TagSize || raw[0] != Version {
		return Position{}, false
	}
	mode := ranking.Mode(raw[2])
	if !mode.Valid() || len(raw) != payloadSize(mode)+TagSize {
		return Position{}, false
	}
	payload, tag := raw[:len(raw)-TagSize], raw[len(raw)-TagSize:]
	if !hmac.Equal(tag, c.tag(payload)) {
		return Position{}, false
	}

	p = Position{Kind: payload[1], Mode: mode, Fingerprint: binary.BigEndian.Uint32(payload[3:7])}
	rest := payload[headerSize:]
	next := func() uint64 {
		v := binary.BigEndian.Uint64(rest)
		rest = rest[8:]
		return v
	}
	if mode.Geo() {
		p.Radius = math.Float64frombits(next())
		p.Signal.Distance = math.Float64frombits(next())
	}
	if mode.Search() {
		p.Signal.Relevance = math.Float64frombits(next())
	}
	p.Signal.CreatedAt = time.UnixMicro(int64(next())).UTC()
	p.Signal.ID = int64(next())
	return p, true
}

func fromBase62(s string) ([]byte, bool) {
	if s == "" || s[0] == '0' {
		return nil, false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !(ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z') {
			return nil, false
		}
	}
	n, ok := new(big.Int).SetString(s, 62)
	if !ok || n.Sign() <= 0 {
		return nil, false
	}
	return n.Bytes(), true
}
