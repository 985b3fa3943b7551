package duration

import (
	"regexp"
	"strconv"
	"strings"
)

// reTitleDuration matches the "(1h 21m, 704x512)" / "(14m 01s, 640x480)"
// suffix archive listings put on titles. Minutes are mandatory; hours and
// seconds are optional; the closing comma anchors it to the size field.
var reTitleDuration = regexp.MustCompile(`\((\d+h\s*)?(\d+m)\s*(\d+s)?,`)

// ParseTitle extracts the duration in seconds from a title. ok is false when
// the title carries no recognizable duration, which is distinct from a
// parsed duration of zero.
func ParseTitle(title string) (seconds int, ok bool) {
	m := reTitleDuration.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	h, okH := component(m[1], "h")
	mins, okM := component(m[2], "m")
	sec, okS := component(m[3], "s")
	if !okH || !okM || !okS {
		return 0, false
	}
	return h*3600 + mins*60 + sec, true
}

// component parses "21m" / "1h " style groups. An absent group is zero; a
// digit run too large for an int is not a duration.
func component(group, unit string) (int, bool) {
	if group == "" {
		return 0, true
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(group), unit))
	if err != nil {
		return 0, false
	}
	return n, true
}
