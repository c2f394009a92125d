package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"db-compare/internal/database"
	"db-compare/internal/logger"
	"db-compare/internal/mapping"
	"db-compare/internal/metrics"
)

// EnvPrefix prefixes environment overrides, e.g. DBCOMPARE_COMPARE_WORKERS.
const EnvPrefix = "DBCOMPARE"

type Config struct {
	Databases  []database.Config   `mapstructure:"databases"`
	Compare    CompareConfig       `mapstructure:"compare"`
	Transforms []mapping.Transform `mapstructure:"transforms"`
	Output     OutputConfig        `mapstructure:"output"`
	Log        logger.Config       `mapstructure:"log"`
	Metrics    metrics.Config      `mapstructure:"metrics"`
}

type CompareConfig struct {
	Source            string   `mapstructure:"source"`
	Target            string   `mapstructure:"target"`
	UseCatalog        bool     `mapstructure:"use_catalog" default:"false"`
	Include           []string `mapstructure:"include"`
	Exclude           []string `mapstructure:"exclude"`
	ConfigTablePrefix string   `mapstructure:"config_table_prefix" default:"sym_"`
	Workers           int      `mapstructure:"workers" default:"1"`
	ProgressInterval  int64    `mapstructure:"progress_interval" default:"10000"`
	NumericTolerance  bool     `mapstructure:"numeric_tolerance" default:"true"`
	TrimText          bool     `mapstructure:"trim_text" default:"true"`
}

type OutputConfig struct {
	Diff         string `mapstructure:"diff"`
	ReportFormat string `mapstructure:"report_format" default:"table"`
}

// Prepare registers defaults and environment overrides on v.
func Prepare(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindValues(v, Config{}, "")
}

// Load decodes v after loading a .env file from dir, if present.
func Load(v *viper.Viper, dir string) (*Config, error) {
	envPath := dir + "/.env"
	if dir == "" || dir == "." {
		envPath = ".env"
	}
	_ = godotenv.Load(envPath)

	Prepare(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validateTransforms(v, cfg.Transforms); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateTransforms rejects ambiguous column overrides. Viper folds map keys to lower
// case, which would hide the duplicates, so the raw YAML file is checked as well.
func validateTransforms(v *viper.Viper, transforms []mapping.Transform) error {
	if err := mapping.StaticTransforms(transforms).Validate(); err != nil {
		return fmt.Errorf("invalid transforms: %w", err)
	}
	path := v.ConfigFileUsed()
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".yaml" && ext != ".yml" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var raw struct {
		Transforms []mapping.Transform `yaml:"transforms"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := mapping.StaticTransforms(raw.Transforms).Validate(); err != nil {
		return fmt.Errorf("invalid transforms in %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a YAML config file into a fresh viper instance.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Load(v, ".")
}

// Database returns the data source registered under name (case-insensitive).
func (c *Config) Database(name string) (*database.Config, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("no database name given")
	}
	for i := range c.Databases {
		if strings.EqualFold(c.Databases[i].Name, name) {
			return &c.Databases[i], nil
		}
	}
	return nil, fmt.Errorf("database %q not found in config", name)
}

// bindValues walks the struct tags, registering `default` values and making every
// scalar key visible to AutomaticEnv during Unmarshal.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice:
			if field.Type.Elem().Kind() == reflect.Struct {
				continue
			}
		}

		if defaultValue, ok := field.Tag.Lookup("default"); ok {
			v.SetDefault(key, defaultValue)
		} else {
			_ = v.BindEnv(key)
		}
	}
}
