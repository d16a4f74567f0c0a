package domain

import (
	"crypto/md5" // #nosec G401 -- content-addressed identity, not security
	"encoding/hex"
)

// ComputeRowID derives the stable row identity for an item from its product
// id and option set. The digest is taken over the id concatenated with the
// canonical (key-sorted) option serialization, so insertion order of options
// never affects identity. Items sharing a row ID are the same logical entry
// and get merged by the store.
func ComputeRowID(id string, options Options) string {
	sum := md5.Sum([]byte(id + options.canonical())) // #nosec G401
	return hex.EncodeToString(sum[:])
}
