package config

import (
	"github.com/samber/oops"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/aquasecurity/trivy-multi-report/pkg/splicer"
)

// DefaultTemplate is resolved against the working directory.
const DefaultTemplate = "multi-image-trivy-report-template.html"

// Config holds the settings of one report generation run.
type Config struct {
	Template   string `yaml:"template"`
	Identifier string `yaml:"identifier"`
	Indent     int    `yaml:"indent"`
	NoColor    bool   `yaml:"no_color"`
}

func Default() Config {
	return Config{
		Template:   DefaultTemplate,
		Identifier: splicer.DefaultIdentifier,
		Indent:     splicer.DefaultIndent,
	}
}

// Load reads a YAML config file from fs. Keys missing from the file keep
// their default values.
func Load(fs afero.Fs, path string) (Config, error) {
	eb := oops.In("config").With("file_path", path)

	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, eb.Wrapf(err, "file read error")
	}

	cfg := Default()
	if err = yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, eb.Wrapf(err, "yaml decode error")
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, eb.Wrap(err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Template == "":
		return oops.Errorf("template must not be empty")
	case c.Identifier == "":
		return oops.Errorf("identifier must not be empty")
	case c.Indent < 0:
		return oops.With("indent", c.Indent).Errorf("indent must not be negative")
	}
	return nil
}
