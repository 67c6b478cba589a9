package status

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Intro("EMBED DOC", "Creating embeddings of Doc: guide.md in memory notes")
	r.Start("Processing docs...")
	r.Message("Generating embeddings...")
	r.Stop("Embeddings generated.")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "EMBED DOC")
	assert.Contains(t, lines[1], "Creating embeddings of Doc: guide.md in memory notes")
	assert.Equal(t, "◒  Processing docs...", lines[3])
	assert.Equal(t, "◒  Generating embeddings...", lines[4])
	assert.Equal(t, "◇  Embeddings generated.", lines[5])
}

func TestReporter_Cancel(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Start("Processing docs...")
	r.Cancel("No valid documents found in memory 'notes'.")
	assert.Contains(t, buf.String(), "■  No valid documents found in memory 'notes'.\n")
}

func TestReporter_IntroWithoutSub(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Intro("LIST", "")
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
}
