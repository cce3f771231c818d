// Package config assembles the build configuration from, in increasing
// precedence: built-in defaults, an optional YAML file, STACKBOX_*
// environment variables, command-line flags, and finally a parameter
// script, which overrides only the parameters it names.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chazu/stackbox/pkg/engine"
	"github.com/chazu/stackbox/pkg/export"
	"github.com/chazu/stackbox/pkg/params"
)

const (
	configFileName = "stackbox"
	configFileType = "yaml"

	// EnvPrefix prefixes every environment variable, e.g. STACKBOX_WIDTH.
	EnvPrefix = "STACKBOX"

	KeyOutputDir = "output_dir"
	KeyFormat    = "format"
	KeyMeshCells = "mesh_cells"
	KeyLayoutGap = "layout_gap"
	KeyScript    = "script"

	DefaultMeshCells = 200
	DefaultLayoutGap = 10.0
)

// Config is everything a build needs.
type Config struct {
	params.Params `mapstructure:",squash" yaml:",inline"`

	OutputDir string  `mapstructure:"output_dir" yaml:"output_dir"`
	Format    string  `mapstructure:"format" yaml:"format"`
	MeshCells int     `mapstructure:"mesh_cells" yaml:"mesh_cells"`
	LayoutGap float64 `mapstructure:"layout_gap" yaml:"layout_gap"`
	Script    string  `mapstructure:"script" yaml:"script,omitempty"`
}

// New returns a viper instance holding the defaults and reading the
// environment.
func New() *viper.Viper {
	v := viper.New()
	d := params.Default()
	for _, name := range params.Names {
		val, _ := d.Get(name)
		v.SetDefault(name, val)
	}
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyFormat, string(export.FormatSTL))
	v.SetDefault(KeyMeshCells, DefaultMeshCells)
	v.SetDefault(KeyLayoutGap, DefaultLayoutGap)
	v.SetDefault(KeyScript, "")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// flagName is the command-line spelling of a key.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// BindFlags registers a flag per parameter on fs and binds them to v.
// Only flags the user sets override lower layers.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	d := params.Default()
	for _, name := range params.Names {
		val, _ := d.Get(name)
		fs.Float64(flagName(name), val, fmt.Sprintf("%s in mm", name))
	}
	fs.StringP(flagName(KeyOutputDir), "o", ".", "directory the parts are written to")
	fs.String(KeyFormat, string(export.FormatSTL), "output format: stl or 3mf")
	fs.Int(flagName(KeyMeshCells), DefaultMeshCells, "marching cubes cells along the longest side")
	fs.Float64(flagName(KeyLayoutGap), DefaultLayoutGap, "gap between the bottom and the lid in mm")
	fs.String(KeyScript, "", "parameter script evaluated after all other settings")

	keys := append(append([]string{}, params.Names...), KeyOutputDir, KeyFormat, KeyMeshCells, KeyLayoutGap, KeyScript)
	for _, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flagName(key))); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// ReadFile reads the YAML config file at path into v. With an empty path
// it looks for stackbox.yaml in the working directory, and a missing file
// is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode unmarshals v, applies the parameter script if one is set, and
// checks the non-geometric settings. Geometric validation is left to
// params.Validate so that its report names every violation.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if c.Script != "" {
		if err := c.ApplyScript(engine.NewEngine()); err != nil {
			return Config{}, err
		}
	}
	if err := c.check(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load is ReadFile followed by Decode.
func Load(v *viper.Viper, path string) (Config, error) {
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return Decode(v)
}

// ApplyScript evaluates the script file named by c.Script and overrides
// the parameters it assigns.
func (c *Config) ApplyScript(eng *engine.Engine) error {
	src, err := os.ReadFile(c.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	s, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return fmt.Errorf("script %s: %w", c.Script, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return fmt.Errorf("script %s: %w", c.Script, errors.Join(errs...))
	}
	c.Params = s.Apply(c.Params)
	return nil
}

// FormatValue returns the parsed output format.
func (c Config) FormatValue() export.Format {
	f, _ := export.ParseFormat(c.Format)
	return f
}

func (c Config) check() error {
	var errs []error
	if _, err := export.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("mesh_cells is %d, must be positive", c.MeshCells))
	}
	if c.LayoutGap < 0 {
		errs = append(errs, fmt.Errorf("layout_gap is %g, must not be negative", c.LayoutGap))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is empty"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
