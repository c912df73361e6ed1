// Package token encodes a quality choice into inline-button callback data.
//
// Current form: dl1|<platform>|<quality>|<url>, with '%' and '|' percent-escaped
// in quality and url. Telegram caps callback data at 64 bytes, so longer
// choices are parked in a TTL store and sent as dlr|<key>. The old
// download_<platform>_<quality>_<url> form is still accepted on decode.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pavelc4/clipgrab-bot/internal/cache"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

const (
	// MaxCallbackData is Telegram's limit for callback_data in bytes.
	MaxCallbackData = 64

	versionTag = "dl1"
	refTag     = "dlr"
	legacyTag  = "download"
	sep        = "|"
)

var (
	ErrMalformed       = errors.New("malformed selection token")
	ErrExpired         = errors.New("selection expired")
	ErrUnknownPlatform = errors.New("unknown platform in selection token")
)

// Selection is what a quality button stands for.
type Selection struct {
	Platform platform.Tag
	Quality  string
	URL      string
}

var (
	escaper   = strings.NewReplacer("%", "%25", "|", "%7C")
	unescaper = strings.NewReplacer("%7C", "|", "%25", "%")
)

type Codec struct {
	maxLen int
	store  *cache.Store[Selection]
}

// NewCodec builds a codec with the Telegram size budget. ttl bounds how long
// an overflowed selection stays claimable.
func NewCodec(ttl time.Duration) *Codec {
	return &Codec{
		maxLen: MaxCallbackData,
		store:  cache.New[Selection](ttl),
	}
}

func (c *Codec) Encode(s Selection) (string, error) {
	if platform.Parse(s.Platform.String()) == platform.None {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s.Platform)
	}
	if s.Quality == "" || s.URL == "" {
		return "", fmt.Errorf("%w: empty field", ErrMalformed)
	}

	data := strings.Join([]string{
		versionTag,
		s.Platform.String(),
		escaper.Replace(s.Quality),
		escaper.Replace(s.URL),
	}, sep)
	if len(data) <= c.maxLen {
		return data, nil
	}

	return refTag + sep + c.store.Put(s), nil
}

func (c *Codec) Decode(data string) (Selection, error) {
	switch {
	case strings.HasPrefix(data, versionTag+sep):
		return decodeInline(data)
	case strings.HasPrefix(data, refTag+sep):
		s, ok := c.store.Get(strings.TrimPrefix(data, refTag+sep))
		if !ok {
			return Selection{}, ErrExpired
		}
		return s, nil
	case strings.HasPrefix(data, legacyTag+"_"):
		return decodeLegacy(data)
	}
	return Selection{}, ErrMalformed
}

// IsToken reports whether data looks like something Decode understands.
func IsToken(data string) bool {
	return strings.HasPrefix(data, versionTag+sep) ||
		strings.HasPrefix(data, refTag+sep) ||
		strings.HasPrefix(data, legacyTag+"_")
}

func decodeInline(data string) (Selection, error) {
	parts := strings.SplitN(data, sep, 4)
	if len(parts) != 4 || parts[2] == "" || parts[3] == "" {
		return Selection{}, ErrMalformed
	}
	tag := platform.Parse(parts[1])
	if tag == platform.None {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, parts[1])
	}
	return Selection{
		Platform: tag,
		Quality:  unescaper.Replace(parts[2]),
		URL:      unescaper.Replace(parts[3]),
	}, nil
}

// decodeLegacy reads download_<platform>_<quality>_<url>, where older
// deployments replaced '/' in the url with "%%%".
func decodeLegacy(data string) (Selection, error) {
	parts := strings.SplitN(data, "_", 4)
	if len(parts) != 4 || parts[2] == "" || parts[3] == "" {
		return Selection{}, ErrMalformed
	}
	tag := platform.Parse(parts[1])
	if tag == platform.None {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, parts[1])
	}
	return Selection{
		Platform: tag,
		Quality:  parts[2],
		URL:      strings.ReplaceAll(parts[3], "%%%", "/"),
	}, nil
}
