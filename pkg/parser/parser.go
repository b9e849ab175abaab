package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"k8s.io/utils/clock"

	"github.com/aquasecurity/trivy-multi-report/pkg/types"
)

var ErrTrailingData = xerrors.New("unexpected data after top-level value")

type Option func(*Parser)

func WithClock(clock clock.Clock) Option {
	return func(p *Parser) {
		p.clock = clock
	}
}

// Parser turns Trivy JSON reports into scan summaries.
type Parser struct {
	clock clock.Clock
}

func New(opts ...Option) *Parser {
	p := &Parser{
		clock: clock.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile opens path on fs and parses it as a Trivy JSON report.
func (p *Parser) ParseFile(fs afero.Fs, path string) (types.ScanSummary, error) {
	eb := oops.In("parser").With("file_path", path)

	f, err := fs.Open(path)
	if err != nil {
		return types.ScanSummary{}, eb.Wrapf(err, "file open error")
	}
	defer f.Close()

	summary, err := p.Parse(f)
	if err != nil {
		return types.ScanSummary{}, eb.Wrap(err)
	}
	return summary, nil
}

// Parse decodes one Trivy JSON report from r. Anything after the top-level
// value other than whitespace is rejected.
func (p *Parser) Parse(r io.Reader) (types.ScanSummary, error) {
	var report types.Report
	dec := json.NewDecoder(r)
	if err := dec.Decode(&report); err != nil {
		return types.ScanSummary{}, oops.Wrapf(err, "json decode error")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		return types.ScanSummary{}, oops.Wrapf(err, "json decode error")
	}
	return p.summarize(report), nil
}

func (p *Parser) summarize(report types.Report) types.ScanSummary {
	summary := types.ScanSummary{
		ArtifactName:    report.ArtifactName,
		Target:          target(report),
		ScanDate:        p.scanDate(report.CreatedAt),
		Vulnerabilities: []types.VulnerabilityRecord{},
	}

	for _, result := range report.Results {
		for _, vuln := range result.Vulnerabilities {
			record := newRecord(vuln)
			summary.Metrics.Add(record.Severity)
			summary.Vulnerabilities = append(summary.Vulnerabilities, record)
		}
	}
	return summary
}

// target returns the artifact name, suffixed with "(family name)" only when
// both OS fields are known.
func target(report types.Report) string {
	name := lo.CoalesceOrEmpty(report.ArtifactName, types.Unknown)
	if osInfo := report.Metadata.OS; osInfo != nil && osInfo.Family != "" && osInfo.Name != "" {
		name = fmt.Sprintf("%s (%s %s)", name, osInfo.Family, osInfo.Name)
	}
	return name
}

func (p *Parser) scanDate(createdAt string) string {
	if createdAt == "" {
		return p.clock.Now().Format(DateLayout)
	}
	return NormalizeScanDate(createdAt)
}

func newRecord(vuln types.Vulnerability) types.VulnerabilityRecord {
	return types.VulnerabilityRecord{
		Package:      lo.CoalesceOrEmpty(vuln.PkgName, types.Unknown),
		Version:      lo.CoalesceOrEmpty(vuln.InstalledVersion, types.Unknown),
		CVE:          lo.CoalesceOrEmpty(vuln.VulnerabilityID, types.Unknown),
		Severity:     strings.ToUpper(lo.FromPtrOr(vuln.Severity, types.SeverityUnknown.String())),
		Description:  lo.CoalesceOrEmpty(vuln.Title, vuln.Description, types.NoDescription),
		FixedVersion: vuln.FixedVersion,
		HasFix:       lo.Ternary(vuln.FixedVersion != "", types.HasFixYes, types.HasFixNo),
	}
}
