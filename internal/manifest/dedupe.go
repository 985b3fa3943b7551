package manifest

// Dedupe returns one record per identifier, in first-seen order.
//
// When identifiers collide, a later record replaces the retained one only if
// its size is positive and either the retained size is not, or the new size
// is strictly smaller. Ties keep the earlier record, and a zero or invalid
// size never wins over a real one.
//
// Records without an identifier are passed through individually so the
// caller can count them as skipped.
func Dedupe(records []VideoRecord) []VideoRecord {
	out := make([]VideoRecord, 0, len(records))
	byID := make(map[string]int, len(records))

	for _, rec := range records {
		if rec.Identifier == "" {
			out = append(out, rec)
			continue
		}
		i, seen := byID[rec.Identifier]
		if !seen {
			byID[rec.Identifier] = len(out)
			out = append(out, rec)
			continue
		}
		if prefer(out[i].Size, rec.Size) {
			out[i] = rec
		}
	}
	return out
}

// prefer reports whether candidate should replace current.
func prefer(current, candidate Size) bool {
	if candidate <= 0 {
		return false
	}
	return current <= 0 || candidate < current
}
