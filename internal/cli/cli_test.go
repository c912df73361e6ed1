package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestInspectPrintsReplies(t *testing.T) {
	out := run(t, "inspect", "https://vimeo.com/1", "https://fb.watch/xyz")

	assert.Contains(t, out, "[message 1]")
	assert.Contains(t, out, "Unsupported platform or invalid link.\nLink: https://vimeo.com/1")
	assert.Contains(t, out, "⏳ Analyzing link from Facebook...")
	assert.Contains(t, out, "[message 2 edited]")
	assert.Contains(t, out, "⬇️ Choose a download quality:")
	assert.Contains(t, out, "dl1|facebook|")
	assert.Contains(t, out, "https://fb.watch/xyz")
}

func TestInspectRejectsBackend(t *testing.T) {
	rootCmd.SetArgs([]string{"inspect", "--youtube-backend", "cobalt", "https://youtu.be/x"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		inspectBackend = "ytdlp"
	})
	err := rootCmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "unknown youtube backend")
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	assert.Contains(t, out, "clipgrab-bot "+Version)
}
