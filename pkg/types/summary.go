package types

import (
	"bytes"
	"encoding/json"

	"github.com/samber/oops"
)

const (
	Unknown       = "unknown"
	NoDescription = "No description available"

	HasFixYes = "yes"
	HasFixNo  = "no"
)

// ScanSummary is the normalized view of one scan report as embedded in the HTML report.
type ScanSummary struct {
	// ArtifactName is the raw artifact name from the report, empty when absent.
	// It is used as the bundle key and never serialized.
	ArtifactName string `json:"-"`

	Target          string                `json:"target"`
	ScanDate        string                `json:"scanDate"`
	Metrics         Metrics               `json:"metrics"`
	Vulnerabilities []VulnerabilityRecord `json:"vulnerabilities"`
}

type VulnerabilityRecord struct {
	Package      string `json:"package"`
	Version      string `json:"version"`
	CVE          string `json:"cve"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	FixedVersion string `json:"fixedVersion"`
	HasFix       string `json:"hasFix"`
}

// Metrics holds per-bucket finding counts. Total always equals the sum of the buckets.
type Metrics struct {
	Critical int `json:"CRITICAL"`
	High     int `json:"HIGH"`
	Medium   int `json:"MEDIUM"`
	Low      int `json:"LOW"`
	Unknown  int `json:"UNKNOWN"`
	Total    int `json:"TOTAL"`
}

// Add counts one finding of the given severity.
func (m *Metrics) Add(severity string) {
	switch NewSeverity(severity) {
	case SeverityCritical:
		m.Critical++
	case SeverityHigh:
		m.High++
	case SeverityMedium:
		m.Medium++
	case SeverityLow:
		m.Low++
	default:
		m.Unknown++
	}
	m.Total++
}

// Sum returns the sum of the five severity buckets.
func (m Metrics) Sum() int {
	return m.Critical + m.High + m.Medium + m.Low + m.Unknown
}

// Count returns the count of a single bucket.
func (m Metrics) Count(s Severity) int {
	switch s {
	case SeverityCritical:
		return m.Critical
	case SeverityHigh:
		return m.High
	case SeverityMedium:
		return m.Medium
	case SeverityLow:
		return m.Low
	default:
		return m.Unknown
	}
}

// Bundle maps bundle keys to scan summaries and remembers insertion order.
// Replacing an existing key keeps its original position.
type Bundle struct {
	keys  []string
	items map[string]ScanSummary
}

func NewBundle() *Bundle {
	return &Bundle{
		items: make(map[string]ScanSummary),
	}
}

func (b *Bundle) Set(key string, summary ScanSummary) {
	if _, ok := b.items[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.items[key] = summary
}

func (b *Bundle) Get(key string) (ScanSummary, bool) {
	s, ok := b.items[key]
	return s, ok
}

// Keys returns the keys in insertion order.
func (b *Bundle) Keys() []string {
	return append([]string(nil), b.keys...)
}

func (b *Bundle) Len() int {
	return len(b.keys)
}

// MarshalJSON encodes the bundle as a JSON object whose members follow insertion order.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, oops.With("key", key).Wrapf(err, "json encode error")
		}
		v, err := json.Marshal(b.items[key])
		if err != nil {
			return nil, oops.With("key", key).Wrapf(err, "json encode error")
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
