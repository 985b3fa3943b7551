package naming

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// ThumbnailExt is the extension of every generated thumbnail.
const ThumbnailExt = ".jpg"

// rewriteSuffixLen is the number of hex digits of the identifier hash
// appended to names that had to be rewritten.
const rewriteSuffixLen = 8

// unsafeChars are replaced so an identifier always names a single file
// directly inside the output directory.
var unsafeChars = strings.NewReplacer("/", "_", `\`, "_", "\x00", "_")

// FileName returns "<identifier>.jpg". Path separators in the identifier
// become underscores and a bare "." or ".." is prefixed with "_". A name
// that had to be rewritten also gets a short hash of the original
// identifier ("a/b" -> "a_b-c14cddc0.jpg"), so it cannot collide with an
// identifier that was already spelled that way.
func FileName(identifier string) string {
	name := unsafeChars.Replace(identifier)
	if name == "." || name == ".." {
		name = "_" + name
	}
	if name != identifier {
		sum := sha256.Sum256([]byte(identifier))
		name += "-" + hex.EncodeToString(sum[:])[:rewriteSuffixLen]
	}
	return name + ThumbnailExt
}

// ThumbnailPath returns the output path for identifier:
//
//	<outputDir>/<identifier>.jpg
func ThumbnailPath(outputDir, identifier string) string {
	return filepath.Join(outputDir, FileName(identifier))
}
