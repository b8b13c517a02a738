// Package fingerprint computes content digests for change detection.
//
// The digest gates every write of the generated router: a regeneration whose
// output fingerprints equal to the file already on disk performs no
// filesystem mutation. The generated file lives inside the bundler's watched
// tree, so an unconditional write would loop rebuild -> rewrite -> rebuild.
//
// CRC32 Castagnoli is used for fast file change detection. This is not a
// security boundary; accidental collisions on source-sized text are the only
// concern.
package fingerprint

import (
	"hash/crc32"
	"os"
	"strconv"
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Digest is a fixed-length hex-encoded content hash.
type Digest string

// Sum computes the digest of the given bytes. Pure function.
func Sum(content []byte) Digest {
	crc := crc32.Checksum(content, crcTable)
	return Digest(padHex(strconv.FormatUint(uint64(crc), 16)))
}

// SumFile computes the digest of a file's contents.
func SumFile(path string) (Digest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Sum(content), nil
}

// padHex left-pads to 8 hex digits so all digests share a fixed length.
func padHex(s string) string {
	for len(s) < 8 {
		s = "0" + s
	}
	return s
}
