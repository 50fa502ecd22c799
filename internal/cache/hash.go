package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cwrap/cwrap/internal/cursor"
)

// HashLength is the number of hex characters kept from a sha256 digest.
const HashLength = 16

// ContentHash hashes header content for change detection.
func ContentHash(content []byte) string {
	return truncateHash(hashBytes(content))
}

// OptionsHash hashes everything besides the content that shapes a document:
// the parse options and any rendering settings (format, density).
func OptionsHash(opts cursor.ParseOptions, extra ...string) string {
	parts := []string{
		opts.Language,
		strconv.FormatBool(opts.Incomplete),
		strconv.FormatBool(opts.DetailedPreprocessing),
	}
	parts = append(parts, extra...)
	return truncateHash(hashBytes([]byte(strings.Join(parts, "\x00"))))
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func truncateHash(hash string) string {
	if len(hash) > HashLength {
		return hash[:HashLength]
	}
	return hash
}
