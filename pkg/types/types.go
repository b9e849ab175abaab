package types

import (
	"strings"

	"github.com/fatih/color"
)

// Severity is one of the buckets a vulnerability is counted under in a scan
// summary.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severities = [...]struct {
	name  string
	color color.Attribute
}{
	SeverityUnknown:  {"UNKNOWN", color.FgCyan},
	SeverityLow:      {"LOW", color.FgBlue},
	SeverityMedium:   {"MEDIUM", color.FgYellow},
	SeverityHigh:     {"HIGH", color.FgHiRed},
	SeverityCritical: {"CRITICAL", color.FgRed},
}

// NewSeverity maps a severity string onto its bucket. Matching is case-insensitive
// and anything unrecognized lands in SeverityUnknown.
func NewSeverity(severity string) Severity {
	severity = strings.ToUpper(severity)
	for s, def := range severities {
		if def.name == severity {
			return Severity(s)
		}
	}
	return SeverityUnknown
}

func (s Severity) String() string {
	return severities[s].name
}

// Colorize returns the bucket name in its terminal color.
func (s Severity) Colorize() string {
	return color.New(severities[s].color).Sprint(severities[s].name)
}

// Report is the subset of a Trivy JSON report consumed by the parser.
type Report struct {
	SchemaVersion int      `json:",omitempty"`
	ArtifactName  string   `json:",omitempty"`
	ArtifactType  string   `json:",omitempty"`
	CreatedAt     string   `json:",omitempty"`
	Metadata      Metadata `json:",omitempty"`
	Results       []Result `json:",omitempty"`
}

type Metadata struct {
	OS *OS `json:",omitempty"`
}

type OS struct {
	Family string `json:",omitempty"`
	Name   string `json:",omitempty"`
}

type Result struct {
	Target          string          `json:",omitempty"`
	Class           string          `json:",omitempty"`
	Type            string          `json:",omitempty"`
	Vulnerabilities []Vulnerability `json:",omitempty"`
}

type Vulnerability struct {
	VulnerabilityID  string  `json:",omitempty"`
	PkgName          string  `json:",omitempty"`
	InstalledVersion string  `json:",omitempty"`
	FixedVersion     string  `json:",omitempty"`
	Severity         *string `json:",omitempty"` // nil when the key is absent
	Title            string  `json:",omitempty"`
	Description      string  `json:",omitempty"`
}
