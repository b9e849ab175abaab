package splicer

import (
	"encoding/json"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/trivy-multi-report/pkg/log"
	"github.com/aquasecurity/trivy-multi-report/pkg/types"
)

const (
	DefaultIdentifier = "scanData"
	DefaultIndent     = 4
)

var (
	ErrMarkerNotFound = xerrors.New("marker not found")
	ErrEndNotFound    = xerrors.New("end not found")
)

type Option func(*Splicer)

// WithIdentifier sets the name of the JavaScript constant holding the data.
func WithIdentifier(identifier string) Option {
	return func(s *Splicer) {
		s.identifier = identifier
	}
}

// WithIndent sets the number of spaces per nesting level of the embedded data.
func WithIndent(n int) Option {
	return func(s *Splicer) {
		s.indent = n
	}
}

// Splicer replaces the object literal assigned to a constant in a template
// with a serialized bundle.
type Splicer struct {
	identifier string
	indent     int
}

func New(opts ...Option) *Splicer {
	s := &Splicer{
		identifier: DefaultIdentifier,
		indent:     DefaultIndent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// logger is resolved per call so it follows the current default logger.
func logger() *log.Logger {
	return log.WithPrefix("splicer")
}

// Marker returns the text opening the data literal, e.g. "const scanData = {".
func (s *Splicer) Marker() string {
	return s.assignment() + "{"
}

func (s *Splicer) assignment() string {
	return "const " + s.identifier + " = "
}

// Splice returns tmpl with the first data literal, from the marker through its
// matching closing brace, replaced by the serialized bundle.
func (s *Splicer) Splice(tmpl string, bundle *types.Bundle) (string, error) {
	eb := oops.In("splicer").With("marker", s.Marker())

	start := strings.Index(tmpl, s.Marker())
	if start < 0 {
		return "", eb.Wrapf(ErrMarkerNotFound, "template error")
	}
	open := start + len(s.Marker()) - 1

	end, err := FindBlockEnd(tmpl, open)
	if err != nil {
		return "", eb.With("offset", open).Wrapf(err, "template error")
	}
	logger().Debug("Located data literal", log.Int("start", start), log.Int("end", end))

	data, err := json.MarshalIndent(bundle, "", strings.Repeat(" ", s.indent))
	if err != nil {
		return "", eb.Wrapf(err, "json encode error")
	}

	var sb strings.Builder
	sb.Grow(len(tmpl) - (end + 1 - start) + len(s.assignment()) + len(data))
	sb.WriteString(tmpl[:start])
	sb.WriteString(s.assignment())
	sb.Write(data)
	sb.WriteString(tmpl[end+1:])
	return sb.String(), nil
}
