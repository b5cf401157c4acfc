package content

import (
	"regexp"
	"strings"
)

// Delimiter is the fixed line separating the metadata header from the body.
const Delimiter = "---"

var openTagPattern = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9_-]*)>`)

// Parse splits raw document text into metadata and body.
//
// If a delimiter line is present, everything before it is scanned for paired
// metadata tags and everything after it becomes the body. Without a delimiter
// the entire text is the body and the document is a fragment.
func Parse(raw string) (metadata map[string]string, body string, fragment bool) {
	header, rest, found := splitOnDelimiter(raw)
	if !found {
		return map[string]string{}, raw, true
	}
	return parseHeader(header), rest, false
}

// splitOnDelimiter finds the first line consisting solely of the delimiter.
func splitOnDelimiter(raw string) (header, body string, found bool) {
	offset := 0
	for {
		idx := strings.Index(raw[offset:], Delimiter)
		if idx < 0 {
			return "", "", false
		}
		start := offset + idx
		end := start + len(Delimiter)

		lineStart := start == 0 || raw[start-1] == '\n'
		lineEnd := end == len(raw) || raw[end] == '\n' || (raw[end] == '\r' && end+1 < len(raw) && raw[end+1] == '\n')
		if lineStart && lineEnd {
			body = raw[end:]
			body = strings.TrimPrefix(body, "\r\n")
			body = strings.TrimPrefix(body, "\n")
			return raw[:start], body, true
		}
		offset = end
	}
}

// parseHeader scans the header block for paired tags sharing a name and
// captures the trimmed inner text. Unmatched or malformed pairs are silently
// skipped; duplicate tag names resolve to last-occurrence-wins.
func parseHeader(header string) map[string]string {
	metadata := make(map[string]string)
	pos := 0
	for pos < len(header) {
		loc := openTagPattern.FindStringSubmatchIndex(header[pos:])
		if loc == nil {
			break
		}
		name := header[pos+loc[2] : pos+loc[3]]
		innerStart := pos + loc[1]

		closing := "</" + name + ">"
		closeIdx := strings.Index(header[innerStart:], closing)
		if closeIdx < 0 {
			// Unmatched open tag: skip past it and keep scanning.
			pos += loc[1]
			continue
		}

		metadata[name] = strings.TrimSpace(header[innerStart : innerStart+closeIdx])
		pos = innerStart + closeIdx + len(closing)
	}
	return metadata
}
