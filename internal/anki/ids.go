package anki

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
)

// base91Table is the alphabet used to encode note GUIDs. It covers the
// printable ASCII range minus characters that are awkward inside the
// collection database.
const base91Table = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!#$%&()*+,-./:;<=>?@[]^_`{|}~"

// DeckID derives a stable 64-bit deck identifier from a deck name: the
// first eight hex digits of its MD5, matching the scheme used for model
// IDs so the same name always addresses the same deck on import.
func DeckID(name string) int64 {
	sum := md5.Sum([]byte(name))
	id, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return id
}

// noteGUID derives the note's globally-unique identifier from its field
// contents. Two notes with identical fields get identical GUIDs in any
// process, which is what lets Anki dedupe on re-import.
func noteGUID(fields []string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, "__")))
	n := binary.BigEndian.Uint64(sum[:8])

	// Standard change-of-base into the 91-character alphabet.
	var b strings.Builder
	for n > 0 {
		b.WriteByte(base91Table[n%uint64(len(base91Table))])
		n /= uint64(len(base91Table))
	}
	if b.Len() == 0 {
		return string(base91Table[0])
	}
	return b.String()
}

// noteID derives the row identifier from the GUID so note IDs differ only
// when underlying content differs.
func noteID(guid string) int64 {
	sum := sha256.Sum256([]byte(guid))
	id := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if id == 0 {
		id = 1
	}
	return id
}

// cardID derives a card's row identifier from its note GUID and template
// ordinal, keeping card rows stable across repeated exports.
func cardID(guid string, ord int) int64 {
	sum := sha256.Sum256([]byte(guid + ":" + strconv.Itoa(ord)))
	id := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if id == 0 {
		id = 1
	}
	return id
}

// fieldChecksum is the integer form of the first eight hex digits of the
// SHA1 of a note's sort field, used by Anki for duplicate detection.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return n
}
