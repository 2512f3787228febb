package command

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/perfdat/container"
	"github.com/arloliu/perfdat/errs"
	"github.com/arloliu/perfdat/format"
)

// Config holds the decoding defaults read from the --config file.
type Config struct {
	Resources    []string `yaml:"resources"`
	Metrics      []string `yaml:"metrics"`
	Layout       string   `yaml:"layout"`
	ValueKind    string   `yaml:"value_kind"`
	SchemaLength string   `yaml:"schema_length"`
	ReadToEOF    bool     `yaml:"read_to_eof"`
	Workers      int      `yaml:"workers"`
	Names        NameMap  `yaml:"names"`
}

// NameMap joins resource and metric ids against display names.
type NameMap struct {
	Resources map[string]string `yaml:"resources"`
	Metrics   map[string]string `yaml:"metrics"`
}

// Resource returns the display name of a resource id, or the id itself.
func (n NameMap) Resource(id string) string {
	if name, ok := n.Resources[id]; ok && name != "" {
		return name
	}

	return id
}

// Metric returns the display name of a metric id, or the id itself.
func (n NameMap) Metric(id string) string {
	if name, ok := n.Metrics[id]; ok && name != "" {
		return name
	}

	return id
}

// merge overlays the entries of other.
func (n *NameMap) merge(other NameMap) {
	if n.Resources == nil {
		n.Resources = make(map[string]string, len(other.Resources))
	}
	for k, v := range other.Resources {
		n.Resources[k] = v
	}

	if n.Metrics == nil {
		n.Metrics = make(map[string]string, len(other.Metrics))
	}
	for k, v := range other.Metrics {
		n.Metrics[k] = v
	}
}

// LoadConfig reads a YAML config file. Environment variables in the file are expanded.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadNames reads a YAML name map file.
func LoadNames(path string) (NameMap, error) {
	var names NameMap
	if err := loadYAML(path, &names); err != nil {
		return NameMap{}, err
	}

	return names, nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Layout == "" {
		c.Layout = format.LayoutPerResource.String()
	}
	if c.ValueKind == "" {
		c.ValueKind = format.ValueFloat32.String()
	}
	if c.SchemaLength == "" {
		c.SchemaLength = format.SchemaLengthExclusive.String()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func (c *Config) validate() error {
	if _, ok := format.ParseLayout(c.Layout); !ok {
		return fmt.Errorf("%w: layout %q", errs.ErrInvalidOption, c.Layout)
	}
	if _, ok := format.ParseValueKind(c.ValueKind); !ok {
		return fmt.Errorf("%w: value kind %q", errs.ErrInvalidOption, c.ValueKind)
	}
	if _, ok := format.ParseSchemaLengthMode(c.SchemaLength); !ok {
		return fmt.Errorf("%w: schema length %q", errs.ErrInvalidOption, c.SchemaLength)
	}

	return nil
}

// DecoderOptions translates the config into container decoder options.
func (c *Config) DecoderOptions(logger *zap.Logger) []container.DecoderOption {
	layout, _ := format.ParseLayout(c.Layout)
	kind, _ := format.ParseValueKind(c.ValueKind)
	mode, _ := format.ParseSchemaLengthMode(c.SchemaLength)

	opts := []container.DecoderOption{
		container.WithLayout(layout),
		container.WithValueKind(kind),
		container.WithSchemaLengthMode(mode),
		container.WithLogger(logger),
	}

	if len(c.Resources) > 0 {
		opts = append(opts, container.WithResources(c.Resources...))
	}

	if c.ReadToEOF {
		opts = append(opts, container.WithReadToEOF())
	}

	return opts
}
