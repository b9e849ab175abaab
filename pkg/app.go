package pkg

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/aquasecurity/trivy-multi-report/pkg/config"
	"github.com/aquasecurity/trivy-multi-report/pkg/log"
	"github.com/aquasecurity/trivy-multi-report/pkg/parser"
	"github.com/aquasecurity/trivy-multi-report/pkg/splicer"
)

func NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "trivy-multi-report"
	app.Version = version
	app.ArgsUsage = "output_file input_file [input_file...]"

	app.Usage = "Merge Trivy JSON reports into a single HTML report"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "template",
			Usage:  "HTML template path",
			Value:  config.DefaultTemplate,
			EnvVar: "TRIVY_REPORT_TEMPLATE",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file path",
		},
		cli.StringFlag{
			Name:  "identifier",
			Usage: "name of the constant holding the scan data in the template",
			Value: splicer.DefaultIdentifier,
		},
		cli.IntFlag{
			Name:  "indent",
			Usage: "spaces per indentation level of the embedded data",
			Value: splicer.DefaultIndent,
		},
		cli.BoolFlag{
			Name:  "progress",
			Usage: "show a progress bar on stderr",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored summary",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "debug mode",
		},
	}
	app.Action = generate

	return app
}

func generate(c *cli.Context) error {
	log.InitLogger(c.App.Writer, c.Bool("debug"))

	if c.NArg() < 2 {
		_ = cli.ShowAppHelp(c)
		return ErrInvalidArgs
	}
	output := c.Args().First()
	inputs := c.Args().Tail()

	fs := afero.NewOsFs()
	cfg, err := loadConfig(c, fs)
	if err != nil {
		return err
	}
	log.Debug("Configuration loaded",
		log.String("template", cfg.Template),
		log.String("identifier", cfg.Identifier),
		log.Int("indent", cfg.Indent))

	if cfg.NoColor {
		color.NoColor = true
	}

	opts := []GeneratorOption{
		WithFs(fs),
		WithTemplate(cfg.Template),
		WithParser(parser.New()),
		WithSplicer(splicer.New(
			splicer.WithIdentifier(cfg.Identifier),
			splicer.WithIndent(cfg.Indent),
		)),
	}
	if c.Bool("progress") {
		opts = append(opts, WithProgress(errWriter(c)))
	}

	bundle, err := NewGenerator(opts...).Run(output, inputs)
	if err != nil {
		return err
	}

	writeSummary(c.App.Writer, output, bundle)
	return nil
}

// loadConfig layers the config file over the defaults and explicitly set
// flags over both.
func loadConfig(c *cli.Context, fs afero.Fs) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(fs, path); err != nil {
			return config.Config{}, err
		}
	}

	if c.IsSet("template") {
		cfg.Template = c.String("template")
	}
	if c.IsSet("identifier") {
		cfg.Identifier = c.String("identifier")
	}
	if c.IsSet("indent") {
		cfg.Indent = c.Int("indent")
	}
	if c.Bool("no-color") {
		cfg.NoColor = true
	}
	return cfg, cfg.Validate()
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}
