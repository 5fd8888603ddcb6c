package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var storageKeyPattern = regexp.MustCompile(`^\d+-\d{4}-.+$`)

func TestGenerateStorageKey(t *testing.T) {
	key := generateStorageKey("lab results.pdf")

	assert.Regexp(t, storageKeyPattern, key)
	assert.True(t, strings.HasSuffix(key, "-lab results.pdf"), "base name and extension preserved, got %q", key)
}

func TestGenerateStorageKeyStripsDirectories(t *testing.T) {
	// Client-supplied names are never trusted for storage addressing.
	key := generateStorageKey("../../etc/passwd.pdf")

	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, "..")
	assert.True(t, strings.HasSuffix(key, "-passwd.pdf"), "got %q", key)
}

func TestGenerateStorageKeyDisambiguates(t *testing.T) {
	// Same name in the same second still yields distinct keys via the
	// random suffix (collision odds 1 in 9000 per draw pair).
	keys := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		keys[generateStorageKey("same.pdf")] = struct{}{}
	}
	assert.Greater(t, len(keys), 1)
}
