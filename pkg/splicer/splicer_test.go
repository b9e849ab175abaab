package splicer_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/trivy-multi-report/pkg/log"
	"github.com/aquasecurity/trivy-multi-report/pkg/splicer"
	"github.com/aquasecurity/trivy-multi-report/pkg/types"
)

func testBundle() *types.Bundle {
	b := types.NewBundle()
	b.Set("alpine:3.18", types.ScanSummary{
		ArtifactName: "alpine:3.18",
		Target:       "alpine:3.18 (alpine 3.18.4)",
		ScanDate:     "2024-05-06 07:08:09",
		Metrics:      types.Metrics{Critical: 1, Total: 1},
		Vulnerabilities: []types.VulnerabilityRecord{
			{
				Package:     "libcrypto3",
				Version:     "3.1.2-r0",
				CVE:         "CVE-2023-5363",
				Severity:    "CRITICAL",
				Description: `weird {"braces"} and \backslash } </script>`,
				HasFix:      "no",
			},
		},
	})
	b.Set("app:latest", types.ScanSummary{
		ArtifactName:    "app:latest",
		Target:          "app:latest",
		ScanDate:        "2024-03-01 10:20:30",
		Vulnerabilities: []types.VulnerabilityRecord{},
	})
	return b
}

func readTemplate(t *testing.T) string {
	b, err := os.ReadFile(filepath.Join("testdata", "template.html"))
	require.NoError(t, err)
	return string(b)
}

// extractLiteral returns the data literal assigned by marker in text.
func extractLiteral(t *testing.T, text, marker string) string {
	start := strings.Index(text, marker)
	require.GreaterOrEqual(t, start, 0)
	open := start + len(marker) - 1
	end, err := splicer.FindBlockEnd(text, open)
	require.NoError(t, err)
	return text[open : end+1]
}

func TestSplicer_Splice(t *testing.T) {
	tmpl := readTemplate(t)
	bundle := testBundle()
	s := splicer.New()

	got, err := s.Splice(tmpl, bundle)
	require.NoError(t, err)

	t.Run("surrounding text kept", func(t *testing.T) {
		before := tmpl[:strings.Index(tmpl, s.Marker())]
		after := tmpl[strings.Index(tmpl, "};\n\nfunction render")+1:]
		assert.True(t, strings.HasPrefix(got, before))
		assert.True(t, strings.HasSuffix(got, after))
		assert.Contains(t, got, `const settings = { theme: "dark" };`)
		assert.NotContains(t, got, "example:1.0")
	})

	t.Run("round trip", func(t *testing.T) {
		literal := extractLiteral(t, got, s.Marker())

		var decoded map[string]types.ScanSummary
		require.NoError(t, json.Unmarshal([]byte(literal), &decoded))
		require.Len(t, decoded, bundle.Len())
		for _, key := range bundle.Keys() {
			want, _ := bundle.Get(key)
			want.ArtifactName = ""
			assert.Equal(t, want, decoded[key])
		}
	})

	t.Run("indented with four spaces", func(t *testing.T) {
		assert.Contains(t, got, "const scanData = {\n    \"alpine:3.18\": {\n        \"target\"")
	})

	t.Run("script safe", func(t *testing.T) {
		assert.Equal(t, 2, strings.Count(got, "</script>"))
	})

	t.Run("idempotent", func(t *testing.T) {
		again, err := splicer.New().Splice(tmpl, testBundle())
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("splice output again", func(t *testing.T) {
		again, err := s.Splice(got, bundle)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})
}

func TestSplicer_Options(t *testing.T) {
	tmpl := "<script>\nconst reportData = {\"old\": true};\n</script>\n"
	s := splicer.New(splicer.WithIdentifier("reportData"), splicer.WithIndent(2))
	assert.Equal(t, "const reportData = {", s.Marker())

	b := types.NewBundle()
	b.Set("a", types.ScanSummary{Target: "a", Vulnerabilities: []types.VulnerabilityRecord{}})

	got, err := s.Splice(tmpl, b)
	require.NoError(t, err)
	assert.Equal(t, "<script>\nconst reportData = {\n  \"a\": {\n    \"target\": \"a\",\n    \"scanDate\": \"\",\n"+
		"    \"metrics\": {\n      \"CRITICAL\": 0,\n      \"HIGH\": 0,\n      \"MEDIUM\": 0,\n      \"LOW\": 0,\n"+
		"      \"UNKNOWN\": 0,\n      \"TOTAL\": 0\n    },\n    \"vulnerabilities\": []\n  }\n};\n</script>\n", got)
}

func TestSplicer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		wantErr error
	}{
		{
			name:    "marker missing",
			tmpl:    "<script>\nvar scanData = {};\n</script>",
			wantErr: splicer.ErrMarkerNotFound,
		},
		{
			name:    "empty template",
			tmpl:    "",
			wantErr: splicer.ErrMarkerNotFound,
		},
		{
			name:    "unbalanced braces",
			tmpl:    "<script>\nconst scanData = {\"a\": {\"b\": 1};\n</script>",
			wantErr: splicer.ErrEndNotFound,
		},
		{
			name:    "brace hidden in unterminated string",
			tmpl:    "<script>\nconst scanData = {\"a\": \"}};\n</script>",
			wantErr: splicer.ErrEndNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := splicer.New().Splice(tt.tmpl, testBundle())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "template error")
		})
	}
}

func TestSplicer_Splice_ShippedTemplate(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "..", "multi-image-trivy-report-template.html"))
	require.NoError(t, err)

	got, err := splicer.New().Splice(string(b), testBundle())
	require.NoError(t, err)
	assert.NotContains(t, got, "CVE-0000-0000")
	assert.Contains(t, got, `"CVE-2023-5363"`)
	assert.Contains(t, got, "const BUCKETS = [")
}

func TestSplicer_Splice_LoggerInitializedLater(t *testing.T) {
	s := splicer.New()

	var buf bytes.Buffer
	log.InitLogger(&buf, true)
	t.Cleanup(func() { log.InitLogger(os.Stdout, false) })

	_, err := s.Splice(readTemplate(t), testBundle())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="[splicer] Located data literal"`)
}
