package service

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"
)

// generateStorageKey derives a collision-resistant storage key from the
// submission time, a random disambiguator, and the original base name.
// The timestamp gives rough chronological sortability across restarts, the
// random suffix resolves same-second collisions, and keeping the base name
// makes the storage directory debuggable by eye. Residual same-second
// collisions surface as a loud write failure, never silent corruption.
func generateStorageKey(originalFilename string) string {
	base := filepath.Base(originalFilename)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%d-%d-%s%s", time.Now().Unix(), 1000+rand.IntN(9000), name, ext)
}
