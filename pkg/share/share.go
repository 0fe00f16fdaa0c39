// Package share converts caught progress to and from the compact token
// carried in a `#s=` URL fragment: bit-pack, zlib, base64url.
//
// The token has no length or version header. Encoder and decoder must agree
// on slotCount; decoding under a different segment composition silently
// reinterprets the bits.
package share

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog/log"

	"tableflip.dev/livedex/pkg/caught"
)

// Marker prefixes the token inside a URL fragment.
const Marker = "#s="

var (
	// ErrNoToken means the fragment carries no shared state.
	ErrNoToken = errors.New("share: no token present")
	// ErrSlotCount is returned for a negative slot count.
	ErrSlotCount = errors.New("share: slot count must not be negative")

	tokenPattern = regexp.MustCompile(`#s=([^&]+)`)
)

// maxSlack bounds how much inflated data beyond the packed size is read.
const maxSlack = 1 << 16

// Encode returns `#s=<token>` for state, or "" if encoding fails.
func Encode(state caught.State, slotCount int) string {
	tok, err := EncodeToken(state, slotCount)
	if err != nil {
		log.Debug().Err(err).Int("slots", slotCount).Msg("share: encode failed")
		return ""
	}
	return Marker + tok
}

// Decode extracts and decodes the token in hash. ok is false when no token is
// present or it cannot be decoded; neither case is an error for callers.
func Decode(hash string, slotCount int) (caught.State, bool) {
	tok, ok := Extract(hash)
	if !ok {
		return nil, false
	}
	st, err := DecodeToken(tok, slotCount)
	if err != nil {
		log.Debug().Err(err).Msg("share: ignoring undecodable token")
		return nil, false
	}
	return st, true
}

// Pack sets bit (slot-1)%8 of byte (slot-1)/8 for every caught slot in
// [1, slotCount].
func Pack(state caught.State, slotCount int) []byte {
	buf := make([]byte, (slotCount+7)/8)
	for slot := 1; slot <= slotCount; slot++ {
		if state[slot] {
			i := slot - 1
			buf[i>>3] |= 1 << (i & 7)
		}
	}
	return buf
}

// Unpack rebuilds a full state over [1, slotCount]. Slots past the end of
// buf are uncaught.
func Unpack(buf []byte, slotCount int) caught.State {
	st := make(caught.State, slotCount)
	for slot := 1; slot <= slotCount; slot++ {
		i := slot - 1
		st[slot] = i>>3 < len(buf) && buf[i>>3]&(1<<(i&7)) != 0
	}
	return st
}

// EncodeToken returns the bare base64url token.
func EncodeToken(state caught.State, slotCount int) (string, error) {
	if slotCount < 0 {
		return "", ErrSlotCount
	}
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(Pack(state, slotCount)); err != nil {
		return "", fmt.Errorf("share: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("share: compress: %w", err)
	}
	std := base64.StdEncoding.EncodeToString(compressed.Bytes())
	tok := strings.NewReplacer("+", "-", "/", "_").Replace(std)
	return strings.TrimRight(tok, "="), nil
}

// DecodeToken reverses EncodeToken.
func DecodeToken(tok string, slotCount int) (caught.State, error) {
	if slotCount < 0 {
		return nil, ErrSlotCount
	}
	if unescaped, err := url.PathUnescape(tok); err == nil {
		tok = unescaped
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, ErrNoToken
	}
	std := strings.NewReplacer("-", "+", "_", "/").Replace(tok)
	if rem := len(std) % 4; rem != 0 {
		std += strings.Repeat("=", 4-rem)
	}
	compressed, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return nil, fmt.Errorf("share: base64: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("share: inflate: %w", err)
	}
	defer zr.Close()
	packed, err := io.ReadAll(io.LimitReader(zr, int64((slotCount+7)/8+maxSlack)))
	if err != nil {
		return nil, fmt.Errorf("share: inflate: %w", err)
	}
	return Unpack(packed, slotCount), nil
}

// Extract finds the token in a fragment or full URL, ignoring anything
// after a following '&'.
func Extract(hash string) (string, bool) {
	m := tokenPattern.FindStringSubmatch(hash)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Link appends the share fragment for state to base, replacing any existing
// fragment.
func Link(base string, state caught.State, slotCount int) (string, error) {
	frag := Encode(state, slotCount)
	if frag == "" {
		return "", errors.New("share: could not encode state")
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + frag, nil
}

// StripFragment removes only the share token from rawURL, keeping any other
// fragment content. A fragment left empty is dropped entirely.
func StripFragment(rawURL string) string {
	i := strings.IndexByte(rawURL, '#')
	if i < 0 {
		return rawURL
	}
	head, frag := rawURL[:i], rawURL[i+1:]
	parts := strings.Split(frag, "&")
	kept := parts[:0]
	for _, p := range parts {
		if strings.HasPrefix(p, "s=") || p == "" {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return head
	}
	return head + "#" + strings.Join(kept, "&")
}
