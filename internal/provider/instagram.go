package provider

import (
	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

// NewInstagram passes the cookies file along since most reels need a session.
func NewInstagram(ext backend.Extractor, cookies string) Strategy {
	return &basicProvider{
		tag:          platform.Instagram,
		ext:          ext,
		defaultTitle: "Instagram Video",
		cookies:      cookies,
	}
}
