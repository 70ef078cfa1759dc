// Package reconcile maps between the portal's structured ticket model
// and the external ITSM's free-text representation: the HTML description
// blob that serves as the wire format for structured sub-fields, and the
// ad-hoc name matching that ties remote records to directory entries.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Labels of the sub-fields encoded into a ticket description. Order is
// fixed; it is part of the wire format.
const (
	LabelDeviceType       = "DEVICE TYPE"
	LabelExtension        = "EXTENSION"
	LabelRackLocation     = "RACK LOCATION"
	LabelIssueDescription = "ISSUE DESCRIPTION"
)

// DescriptionFields are the structured values carried inside a ticket
// description. DeviceType is optional.
type DescriptionFields struct {
	DeviceType   string
	Extension    string
	RackLocation string
	IssueDetail  string
}

// EncodeDescription renders the fields as the HTML fragment stored in
// the ITSM description field. Absent values render as "-".
func EncodeDescription(fields DescriptionFields) string {
	lines := []struct {
		label string
		value string
	}{
		{LabelDeviceType, fields.DeviceType},
		{LabelExtension, fields.Extension},
		{LabelRackLocation, fields.RackLocation},
		{LabelIssueDescription, fields.IssueDetail},
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		value := line.value
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		parts = append(parts, fmt.Sprintf("<p><strong>%s</strong>: %s</p>", line.label, value))
	}
	return strings.Join(parts, "\n")
}

var (
	patternMu    sync.Mutex
	patternCache = map[string][]*regexp.Regexp{}
)

// fieldPatterns returns the historical encodings of a labelled field,
// most recent first. The format evolved over time, so decode tries each
// shape in order: bold label up to the next tag, plain-text label up to
// the next newline, then the full-paragraph capture.
func fieldPatterns(label string) []*regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if cached, ok := patternCache[label]; ok {
		return cached
	}
	quoted := regexp.QuoteMeta(label)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)<strong>` + quoted + `</strong>:\s*([^<]+)`),
		regexp.MustCompile(`(?i)` + quoted + `:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)<p><strong>` + quoted + `</strong>:(.*?)</p>`),
	}
	patternCache[label] = patterns
	return patterns
}

// DecodeField extracts a labelled value from a description blob. Returns
// the trimmed first match, or "" when no historical pattern applies.
func DecodeField(description, label string) string {
	for _, pattern := range fieldPatterns(label) {
		if match := pattern.FindStringSubmatch(description); len(match) > 1 {
			if value := strings.TrimSpace(match[1]); value != "" {
				return value
			}
		}
	}
	return ""
}

var rackTrailerPattern = regexp.MustCompile(`(?i)RACK LOCATION:.*?\n`)

// decodeIssueDetail pulls the free-text issue out of a description,
// falling back to whatever trails the rack location line in encodings
// that predate the ISSUE DESCRIPTION label.
func decodeIssueDetail(description string) string {
	if value := DecodeField(description, LabelIssueDescription); value != "" {
		return value
	}
	if parts := rackTrailerPattern.Split(description, 2); len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
