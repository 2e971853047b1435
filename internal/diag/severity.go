package diag

import "github.com/fatih/color"

// Severity orders diagnostics; a Bag sorts higher values first at the same
// location.
type Severity uint8

const (
	SevInfo    Severity = iota // нераскрытые макросы
	SevWarning                 // ModMalformed
	SevError
)

var severities = [...]struct {
	label string
	attrs []color.Attribute
}{
	SevInfo:    {"info", []color.Attribute{color.FgCyan}},
	SevWarning: {"warning", []color.Attribute{color.FgYellow, color.Bold}},
	SevError:   {"error", []color.Attribute{color.FgRed, color.Bold}},
}

// String returns the label printed in front of a diagnostic.
func (s Severity) String() string {
	if int(s) < len(severities) {
		return severities[s].label
	}
	return "unknown"
}

// paint returns the colour of s; plain when on is false.
func (s Severity) paint(on bool) *color.Color {
	var c *color.Color
	if int(s) < len(severities) {
		c = color.New(severities[s].attrs...)
	} else {
		c = color.New(color.Reset)
	}
	setColor(c, on)
	return c
}
