package platform

import (
	"regexp"
	"strings"
)

// Tag identifies a supported source site. The zero value means unsupported.
type Tag string

const (
	None      Tag = ""
	YouTube   Tag = "youtube"
	Instagram Tag = "instagram"
	TikTok    Tag = "tiktok"
	Facebook  Tag = "facebook"
	Twitter   Tag = "twitter"
)

var names = map[Tag]string{
	YouTube:   "YouTube",
	Instagram: "Instagram",
	TikTok:    "TikTok",
	Facebook:  "Facebook",
	Twitter:   "Twitter/X",
}

// Order matters: the first matching pattern wins.
var patterns = []struct {
	tag Tag
	re  *regexp.Regexp
}{
	{YouTube, regexp.MustCompile(`(?i)(youtube\.com|youtu\.be)`)},
	{Instagram, regexp.MustCompile(`(?i)instagram\.com`)},
	{TikTok, regexp.MustCompile(`(?i)tiktok\.com`)},
	{Facebook, regexp.MustCompile(`(?i)facebook\.com|fb\.watch`)},
	{Twitter, regexp.MustCompile(`(?i)twitter\.com|x\.com`)},
}

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

// ExtractURLs returns every http(s) link in text in order of appearance.
func ExtractURLs(text string) []string {
	return urlRegex.FindAllString(text, -1)
}

// Detect returns the platform of rawURL or None.
func Detect(rawURL string) Tag {
	for _, p := range patterns {
		if p.re.MatchString(rawURL) {
			return p.tag
		}
	}
	return None
}

// Parse maps a tag key back to a Tag. Unknown keys yield None.
func Parse(key string) Tag {
	t := Tag(strings.ToLower(key))
	if _, ok := names[t]; ok {
		return t
	}
	return None
}

// All lists the supported platforms in matching order.
func All() []Tag {
	tags := make([]Tag, 0, len(patterns))
	for _, p := range patterns {
		tags = append(tags, p.tag)
	}
	return tags
}

func (t Tag) Name() string {
	if n, ok := names[t]; ok {
		return n
	}
	if t == None {
		return "Unknown"
	}
	return string(t)
}

func (t Tag) String() string {
	return string(t)
}
