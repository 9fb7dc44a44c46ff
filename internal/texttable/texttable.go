// Package texttable parses the line-oriented, colon-delimited tables that
// platform diagnostic tools print. All functions are pure and tolerate
// malformed input; callers decide whether skipped lines matter.
package texttable

import "strings"

// SplitColon splits line at its first colon and returns both halves with
// surrounding whitespace trimmed. ok is false when the line contains no
// colon; such lines carry no key/value pair and are never an error.
func SplitColon(line string) (label, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

// Lines splits a block of tool output into lines, normalizing Windows line
// terminators first. A trailing newline does not produce a final empty
// line.
func Lines(block string) []string {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	block = strings.TrimSuffix(block, "\n")
	if block == "" {
		return nil
	}
	return strings.Split(block, "\n")
}

// BodyLines returns the lines of block with the leading header line
// discarded. A block holding only a header (or nothing at all) yields an
// empty result, not an error.
func BodyLines(block string) []string {
	lines := Lines(block)
	if len(lines) == 0 {
		return nil
	}
	return lines[1:]
}

// Values extracts the value half of every "label: value" line, skipping
// lines without a colon. The number of skipped lines is returned so callers
// can surface format drift without failing on it.
func Values(lines []string) (values []string, skipped int) {
	for _, line := range lines {
		_, v, ok := SplitColon(line)
		if !ok {
			skipped++
			continue
		}
		values = append(values, v)
	}
	return values, skipped
}
