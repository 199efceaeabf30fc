package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameBytes keeps keys within S3 and common filesystem limits.
const maxFileNameBytes = 200

var ErrInvalidFileName = errors.New("invalid file name")

// OwnerPrefix returns the key prefix for an owner's objects. Raw user IDs
// never appear in storage paths.
func OwnerPrefix(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName turns an uploaded file name into a single safe path
// segment. Separators become underscores, control characters are dropped,
// and long names are shortened keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimLeft(s, ".")
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameBytes {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = truncateUTF8(s[:len(s)-len(ext)], maxFileNameBytes-len(ext)) + ext
	}
	return s, nil
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
