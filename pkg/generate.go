package pkg

import (
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/samber/oops"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/trivy-multi-report/pkg/config"
	"github.com/aquasecurity/trivy-multi-report/pkg/log"
	"github.com/aquasecurity/trivy-multi-report/pkg/parser"
	"github.com/aquasecurity/trivy-multi-report/pkg/splicer"
	"github.com/aquasecurity/trivy-multi-report/pkg/types"
	"github.com/aquasecurity/trivy-multi-report/pkg/utils"
)

var (
	ErrInvalidArgs     = xerrors.New("an output file and at least one input file are required")
	ErrTemplateMissing = xerrors.New("template file not found")
	ErrNoValidResults  = xerrors.New("no valid scan results found")
)

type GeneratorOption func(*Generator)

func WithFs(fs afero.Fs) GeneratorOption {
	return func(g *Generator) {
		g.fs = fs
	}
}

func WithParser(p *parser.Parser) GeneratorOption {
	return func(g *Generator) {
		g.parser = p
	}
}

func WithSplicer(s *splicer.Splicer) GeneratorOption {
	return func(g *Generator) {
		g.splicer = s
	}
}

func WithTemplate(path string) GeneratorOption {
	return func(g *Generator) {
		g.template = path
	}
}

// WithProgress renders a progress bar over the input files to w.
func WithProgress(w io.Writer) GeneratorOption {
	return func(g *Generator) {
		g.progress = w
	}
}

// Generator merges Trivy JSON reports into one HTML report.
type Generator struct {
	fs       afero.Fs
	parser   *parser.Parser
	splicer  *splicer.Splicer
	template string
	progress io.Writer
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		fs:       afero.NewOsFs(),
		parser:   parser.New(),
		splicer:  splicer.New(),
		template: config.DefaultTemplate,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run parses inputs, splices them into the template and writes the result to
// output. Inputs that are missing or fail to parse are skipped with a warning.
// Nothing is written unless the whole run succeeds.
func (g *Generator) Run(output string, inputs []string) (*types.Bundle, error) {
	eb := oops.In("generator").With("template", g.template)

	ok, err := utils.Exists(g.fs, g.template)
	if err != nil {
		return nil, eb.Wrapf(err, "template check error")
	} else if !ok {
		return nil, eb.Wrapf(ErrTemplateMissing, "template error")
	}

	bundle := g.collect(inputs)
	if bundle.Len() == 0 {
		return nil, eb.With("inputs", len(inputs)).Wrap(ErrNoValidResults)
	}
	log.Debug("Collected scan results", log.Any("keys", bundle.Keys()))

	log.Info("Generating HTML report", log.FilePath(output))
	tmpl, err := utils.ReadFile(g.fs, g.template)
	if err != nil {
		return nil, eb.Wrap(err)
	}

	report, err := g.splicer.Splice(string(tmpl), bundle)
	if err != nil {
		return nil, eb.Wrap(err)
	}

	if err = afero.WriteFile(g.fs, output, []byte(report), 0o644); err != nil {
		return nil, eb.With("output", output).Wrapf(err, "file write error")
	}
	return bundle, nil
}

func (g *Generator) collect(inputs []string) *types.Bundle {
	var bar *pb.ProgressBar
	if g.progress != nil {
		bar = pb.New(len(inputs)).SetWriter(g.progress).Start()
		defer bar.Finish()
	}

	bundle := types.NewBundle()
	for _, input := range inputs {
		if bar != nil {
			bar.Increment()
		}

		ok, err := utils.Exists(g.fs, input)
		if err != nil {
			log.Warn("Failed to process file, skipping", log.FilePath(input), log.Err(err))
			continue
		} else if !ok {
			log.Warn("File not found, skipping", log.FilePath(input))
			continue
		}

		log.Info("Processing file", log.FilePath(input))
		summary, err := g.parser.ParseFile(g.fs, input)
		if err != nil {
			log.Warn("Failed to process file, skipping", log.FilePath(input), log.Err(err))
			continue
		}

		key := summary.ArtifactName
		if key == "" {
			key = utils.FileStem(input)
		}
		if _, dup := bundle.Get(key); dup {
			log.Warn("Duplicate artifact, replacing earlier result", log.Artifact(key), log.FilePath(input))
		}
		bundle.Set(key, summary)
		log.Info("Found vulnerabilities", log.Artifact(key), log.Int("count", summary.Metrics.Total))
	}
	return bundle
}
