package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no links", "hello there, nothing to see", nil},
		{"bare domain is not a link", "visit youtube.com/watch?v=1", nil},
		{"single", "check this https://www.youtube.com/watch?v=abc out", []string{"https://www.youtube.com/watch?v=abc"}},
		{
			"multiple keep order and duplicates",
			"http://a.example/x https://tiktok.com/@u/video/1\nhttp://a.example/x",
			[]string{"http://a.example/x", "https://tiktok.com/@u/video/1", "http://a.example/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURLs(tt.text))
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		url  string
		want Tag
	}{
		{"https://www.youtube.com/watch?v=abc&t=10", YouTube},
		{"https://youtu.be/abc?si=xyz", YouTube},
		{"HTTPS://WWW.YOUTUBE.COM/SHORTS/ABC", YouTube},
		{"https://www.instagram.com/reel/Cx1/?igsh=1", Instagram},
		{"https://vm.tiktok.com/ZM123/", TikTok},
		{"https://www.TikTok.com/@user/video/123", TikTok},
		{"https://www.facebook.com/watch/?v=1", Facebook},
		{"https://fb.watch/abc/", Facebook},
		{"https://twitter.com/u/status/1", Twitter},
		{"https://x.com/u/status/1", Twitter},
		{"https://vimeo.com/123", None},
		// first match wins: a youtube link mentioning instagram in the query stays youtube
		{"https://youtube.com/watch?v=1&ref=instagram.com", YouTube},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.url))
		})
	}
}

func TestParseAndName(t *testing.T) {
	for _, tag := range All() {
		assert.Equal(t, tag, Parse(tag.String()))
		assert.NotEmpty(t, tag.Name())
	}
	assert.Equal(t, None, Parse("vimeo"))
	assert.Equal(t, YouTube, Parse("YouTube"))
	assert.Equal(t, "Unknown", None.Name())
	assert.Len(t, All(), 5)
}
