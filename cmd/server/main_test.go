package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawCommand(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"draw", "3", "--photos=false", "--seed", "4", "--render", dir})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	seen := map[string]bool{}
	for _, l := range lines {
		assert.Contains(t, l, "illustration")
		f := strings.Fields(l)
		key := strings.SplitN(f[len(f)-1], "?", 2)[0]
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
	_, err = os.Stat(filepath.Join(dir, "card-00.png"))
	assert.NoError(t, err)
}

func TestDrawCommandRejectsBadInput(t *testing.T) {
	rootCmd.SetArgs([]string{"draw", "99"})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"draw", "2", "--photos=false", "--illustrations=false"})
	assert.Error(t, rootCmd.Execute())
}
