package anki

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

// base91Table is Anki's alphabet for compact note GUIDs.
var base91Table = []byte(
	"abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!#$%&()*+,-./:;<=>?@[]^_`{|}~")

// GUID derives the identifier Anki uses for a note from an arbitrary string:
// the first eight bytes of its SHA-256 digest, base91-encoded with Anki's
// alphabet. The mapping is pure, so regenerating a deck from unchanged input
// yields the same GUIDs and the scheduler keeps its history.
func GUID(s string) string {
	sum := sha256.Sum256([]byte(s))
	n := binary.BigEndian.Uint64(sum[:8])

	var reversed [16]byte
	i := 0
	for n > 0 {
		reversed[i] = base91Table[n%uint64(len(base91Table))]
		n /= uint64(len(base91Table))
		i++
	}
	out := make([]byte, i)
	for j := 0; j < i; j++ {
		out[j] = reversed[i-1-j]
	}
	return string(out)
}

// FieldsGUID is the default GUIDFunc: it hashes every field, joined the way
// Anki's exporter does, so any field edit produces a new note identity.
func FieldsGUID(fields []string) string {
	return GUID(strings.Join(fields, "__"))
}

// fieldChecksum is Anki's sort-field checksum: the first 32 bits of the
// SHA-1 digest of the field text, stored as an integer.
func fieldChecksum(sfld string) int64 {
	sum := sha1.Sum([]byte(sfld))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}
