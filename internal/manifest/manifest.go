package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrNotFound is returned by [Load] when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// VideoRecord is one entry of the manifest's mp4_files array. Records are
// read-only after loading.
type VideoRecord struct {
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Filename   string `json:"filename"` // Informational only.
	Title      string `json:"title"`
	Size       Size   `json:"size"`
}

// Validate reports whether the record carries what extraction needs: an
// identifier to name the thumbnail and a URL to read from.
func (r VideoRecord) Validate() error {
	return v.ValidateStruct(&r,
		v.Field(&r.Identifier, v.Required),
		v.Field(&r.URL, v.Required),
	)
}

// Size is a byte count that tolerates the shapes found in real manifests:
// JSON numbers, numeric strings ("1048576", "1.5e6"), null, or garbage.
// Anything that is not a finite number decodes as 0.
type Size int64

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (s *Size) UnmarshalJSON(b []byte) error {
	*s = 0
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		raw = strings.TrimSpace(str)
	}
	*s = parseSize(raw)
	return nil
}

func parseSize(raw string) Size {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Size(n)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0
	}
	return Size(int64(f))
}

type document struct {
	Files []json.RawMessage `json:"mp4_files"`
}

// Load reads and parses the manifest at path. A missing file yields an error
// wrapping [ErrNotFound].
func Load(path string) ([]VideoRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes manifest JSON. Only a document that is not a JSON object (or
// whose mp4_files is not an array) is an error. An entry that fails to decode
// becomes an empty record, which the run counts as skipped instead of
// aborting on it. A missing mp4_files key means an empty manifest.
func Parse(data []byte) ([]VideoRecord, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	records := make([]VideoRecord, 0, len(doc.Files))
	for _, raw := range doc.Files {
		var rec VideoRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			rec = VideoRecord{}
		}
		records = append(records, rec)
	}
	return records, nil
}
