package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/aretw0/ursjoin/pkg/adapters/tsv"
	"github.com/aretw0/ursjoin/pkg/core"
)

// ErrSharedStdin is returned when both inputs are set to standard input.
// The identifier pass would consume the stream the annotation pass needs.
var ErrSharedStdin = errors.New("-i|--identifier-file and -r|--rfam-annotations-file cannot both read stdin")

// EnvPrefix is the prefix for configuration environment variables,
// e.g. URSJOIN_OUTPUT_FILE.
const EnvPrefix = "URSJOIN"

// Config holds the settings of a join run.
type Config struct {
	IdentifierFile  string `mapstructure:"identifier_file"`
	AnnotationsFile string `mapstructure:"rfam_annotations_file"`
	OutputFile      string `mapstructure:"output_file"`
	Format          string `mapstructure:"format"`
	Indent          bool   `mapstructure:"indent"`
	Stats           bool   `mapstructure:"stats"`
	Watch           bool   `mapstructure:"watch"`
	Verbose         bool   `mapstructure:"verbose"`
}

// MissingOptionError reports a required setting that was not provided by any
// source (flag, environment or config file).
type MissingOptionError struct {
	Short string
	Long  string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("no -%s|--%s option", e.Short, e.Long)
}

func (e *MissingOptionError) Unwrap() error { return core.ErrMissingOption }

// Validate checks that every required path is set and that at most one input
// reads standard input.
func (c Config) Validate() error {
	switch {
	case c.AnnotationsFile == "":
		return &MissingOptionError{Short: "r", Long: "rfam-annotations-file"}
	case c.IdentifierFile == "":
		return &MissingOptionError{Short: "i", Long: "identifier-file"}
	case c.OutputFile == "":
		return &MissingOptionError{Short: "o", Long: "output-file"}
	case c.IdentifierFile == tsv.StdinPath && c.AnnotationsFile == tsv.StdinPath:
		return ErrSharedStdin
	}
	return nil
}

// NewViper returns a viper instance with defaults and environment lookup
// configured for Config.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees environment overrides.
	v.SetDefault("identifier_file", "")
	v.SetDefault("rfam_annotations_file", "")
	v.SetDefault("output_file", "")
	v.SetDefault("format", "")
	v.SetDefault("indent", false)
	v.SetDefault("stats", false)
	v.SetDefault("watch", false)
	v.SetDefault("verbose", false)
	return v
}

// LoadConfig reads configFile (YAML, TOML or JSON, by extension) when set and
// returns the merged configuration. Precedence follows viper: flags bound to v,
// then environment, then the config file, then defaults.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
