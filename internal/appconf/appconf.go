// Package appconf holds the process configuration: defaults, an optional YAML
// file and command-line overrides, validated before the application starts.
package appconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment names the operating environment of the process.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value onto an Environment.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// DefaultOutagesURL is the MTA elevator and escalator outage document.
const DefaultOutagesURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fnyct_ene.json"

// DefaultConfigPaths are searched in order when no -config flag is given.
var DefaultConfigPaths = []string{"config.yml", "./config/config.yml"}

// DefaultStationPaths are tried in order until one yields a station table.
var DefaultStationPaths = []string{"stops.txt", "./data/stops.txt", "./backend/stops.txt"}

// Config holds all the configuration settings for the Application.
type Config struct {
	Port         int         `yaml:"port" validate:"gt=0,lte=65535"`
	Env          Environment `yaml:"-"`
	EnvName      string      `yaml:"env" validate:"omitempty,oneof=development test production prod"`
	Verbose      bool        `yaml:"verbose"`
	RateLimit    int         `yaml:"rateLimit" validate:"gte=0"`
	CORSOrigins  []string    `yaml:"corsOrigins" validate:"dive,url|eq=*"`
	StationPaths []string    `yaml:"stationPaths" validate:"dive,required"`
	OutagesURL   string      `yaml:"outagesURL" validate:"required,url"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Port:         4000,
		Env:          Development,
		EnvName:      Development.String(),
		RateLimit:    0,
		CORSOrigins:  []string{"http://localhost:5173"},
		StationPaths: append([]string(nil), DefaultStationPaths...),
		OutagesURL:   DefaultOutagesURL,
	}
}

// Load reads the first readable YAML file among paths over the defaults.
// A missing file is not an error; a malformed one is.
func Load(paths []string) (Config, string, error) {
	cfg := Default()

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, "", fmt.Errorf("reading config %s: %w", p, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, "", fmt.Errorf("parsing config %s: %w", p, err)
		}
		cfg.Env = EnvFlagToEnvironment(cfg.EnvName)
		return cfg, p, nil
	}

	return cfg, "", nil
}

// Validate checks the struct tags on Config.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
