// Package keygen produces collision-resistant storage keys for uploaded files
// and recovers display names from them.
package keygen

import (
	"strings"

	"github.com/google/uuid"
)

// Prefix is the fixed namespace segment that partitions objects managed by
// this service from other uses of the same bucket.
const Prefix = "uploads/"

// separator sits between the unique token and the original file name.
const separator = "-"

// Generate builds a storage key of the form "uploads/<token>-<originalName>".
// The original name is preserved verbatim so that DisplayName can recover it.
// A fresh random token makes the key unique even for repeated file names; the
// token itself never contains the separator.
func Generate(originalName string) string {
	token := strings.ReplaceAll(uuid.NewString(), separator, "")
	return Prefix + token + separator + originalName
}

// DisplayName recovers the original file name from a storage key by stripping
// the namespace prefix and everything up to and including the first
// separator.
//
// Recovery is naive: keys produced by Generate recover losslessly because the
// token is separator-free, but a foreign key under the same prefix whose
// first segment is not a token will lose that segment. A key without any
// separator is returned with only the prefix stripped.
func DisplayName(key string) string {
	rest := strings.TrimPrefix(key, Prefix)
	if _, name, found := strings.Cut(rest, separator); found {
		return name
	}
	return rest
}
