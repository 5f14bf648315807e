package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Namespace creates a short stable identifier for a set of config files,
// used to keep the compiled caches of different projects apart.
// The order of files does not matter.
func Namespace(configFiles []string) string {
	sorted := make([]string, len(configFiles))
	copy(sorted, configFiles)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(strings.Join(sorted, "|")))

	return hex.EncodeToString(h.Sum(nil))[:12]
}

// DefaultTmpPath returns the compiled cache directory for a set of config files
func DefaultTmpPath(configFiles []string) string {
	return filepath.Join(os.TempDir(), "apc-"+Namespace(configFiles))
}
