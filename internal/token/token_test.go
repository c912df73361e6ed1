package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

func TestRoundTrip(t *testing.T) {
	c := NewCodec(time.Hour)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"youtube short", Selection{platform.YouTube, "720p", "https://youtu.be/abc"}},
		{"delimiter in url", Selection{platform.YouTube, "360p", "https://youtu.be/a?x=1|2"}},
		{"escape lookalike in url", Selection{platform.TikTok, "default", "https://t.co/%7C%25|"}},
		{"delimiter in quality", Selection{platform.YouTube, "1080p|hdr", "https://youtu.be/q"}},
		{"underscores", Selection{platform.Instagram, "default", "https://instagr.am/p/a_b_c"}},
		{"long url overflows", Selection{platform.Instagram, "default", "https://www.instagram.com/reel/C8abcdefghij/?igsh=MWQ1ZGUxMzBkMA=="}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Encode(tt.sel)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(data), MaxCallbackData)
			assert.True(t, IsToken(data))

			got, err := c.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.sel, got)
		})
	}
}

func TestInlineFormat(t *testing.T) {
	c := NewCodec(time.Hour)
	data, err := c.Encode(Selection{platform.YouTube, "720p", "https://youtu.be/a|b"})
	require.NoError(t, err)
	assert.Equal(t, "dl1|youtube|720p|https://youtu.be/a%7Cb", data)
}

func TestOverflowDecodesLikeInline(t *testing.T) {
	c := NewCodec(time.Hour)
	sel := Selection{platform.TikTok, "default", "https://www.tiktok.com/@someone/video/7312345678901234567?lang=en"}

	data, err := c.Encode(sel)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(data, "dlr|"))

	// a second tap on the same button works for both token forms
	for i := 0; i < 2; i++ {
		got, err := c.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, sel, got)
	}

	inline, err := c.Encode(Selection{platform.TikTok, "default", "https://vt.tiktok.com/x/"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = c.Decode(inline)
		require.NoError(t, err)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	c := NewCodec(time.Hour)

	_, err := c.Encode(Selection{platform.None, "720p", "https://x"})
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	_, err = c.Encode(Selection{platform.YouTube, "", "https://x"})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Encode(Selection{platform.YouTube, "720p", ""})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeErrors(t *testing.T) {
	c := NewCodec(time.Hour)

	tests := []struct {
		data string
		want error
	}{
		{"", ErrMalformed},
		{"something_else", ErrMalformed},
		{"dl1|youtube|720p", ErrMalformed},
		{"dl1|youtube||https://x", ErrMalformed},
		{"dl1|vimeo|720p|https://x", ErrUnknownPlatform},
		{"dlr|deadbeef", ErrExpired},
		{"download_youtube_720p", ErrMalformed},
		{"download_myspace_default_https:%%%%%%x", ErrUnknownPlatform},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			_, err := c.Decode(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeLegacy(t *testing.T) {
	c := NewCodec(time.Hour)

	got, err := c.Decode("download_tiktok_default_https:%%%%%%vm.tiktok.com%%%ZM_1%%%")
	require.NoError(t, err)
	assert.Equal(t, Selection{platform.TikTok, "default", "https://vm.tiktok.com/ZM_1/"}, got)
}

func TestIsToken(t *testing.T) {
	assert.True(t, IsToken("dl1|youtube|720p|u"))
	assert.True(t, IsToken("dlr|abc"))
	assert.True(t, IsToken("download_youtube_720p_u"))
	assert.False(t, IsToken("stats_refresh"))
}
