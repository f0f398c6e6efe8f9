/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/registry"
)

// Backends
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Environment variables consulted by Load.
const (
	EnvRegion          = "AWS_REGION"
	EnvNamePrefix      = "AWS_NAME_PREFIX"
	EnvEndpoint        = "AWS_ENDPOINT_URL"
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
)

// Config describes the store and the entities it serves.
type Config struct {
	Backend  string         `yaml:"backend" validate:"required,oneof=dynamodb memory"`
	Prefix   string         `yaml:"prefix"`
	AWS      AWSConfig      `yaml:"aws"`
	Logging  LoggingConfig  `yaml:"logging"`
	Entities []EntityConfig `yaml:"entities" validate:"dive"`
}

// AWSConfig holds client settings. Empty keys fall back to the default credential chain.
type AWSConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey" validate:"required_with=AccessKeyID"`
	SessionToken    string `yaml:"sessionToken"`
}

// LoggingConfig selects the zap preset and level.
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// EntityConfig declares one entity repository.
type EntityConfig struct {
	ID            string        `yaml:"id" validate:"required"`
	Table         string        `yaml:"table" validate:"required"`
	Sources       []string      `yaml:"sources" validate:"unique,dive,required,excludesall=#"`
	LocalIndexes  []IndexConfig `yaml:"localIndexes" validate:"dive"`
	GlobalIndexes []IndexConfig `yaml:"globalIndexes" validate:"dive"`
}

// IndexConfig accepts either a bare index id or a mapping with explicit key attributes.
type IndexConfig struct {
	registry.IndexDefinition `yaml:",inline"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *IndexConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.IndexDefinition = registry.Shorthand(value.Value)
		return nil
	}
	return value.Decode(&c.IndexDefinition)
}

// Definition converts the entity declaration for the repository layer.
func (e EntityConfig) Definition(prefix string) datastore.Definition {
	return datastore.Definition{
		Prefix:        prefix,
		TableID:       e.Table,
		EntityID:      e.ID,
		LocalIndexes:  definitions(e.LocalIndexes),
		GlobalIndexes: definitions(e.GlobalIndexes),
		Sources:       slices.Clone(e.Sources),
	}
}

func definitions(in []IndexConfig) []registry.IndexDefinition {
	out := make([]registry.IndexDefinition, len(in))
	for i, c := range in {
		out[i] = c.IndexDefinition
	}
	return out
}

// Load reads an optional .env file, then the YAML file at path, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadEntities is Load for tools that only resolve names: backend and AWS
// settings are not validated, so no region or credentials are needed.
func LoadEntities(path string) (*Config, error) {
	data, err := read(path)
	if err != nil {
		return nil, err
	}
	return ParseEntities(data)
}

func read(path string) ([]byte, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return data, nil
}

// Parse decodes YAML, applies defaults and environment overrides, and validates.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEntities is Parse restricted to the entity declarations.
func ParseEntities(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateEntities(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigurationError("config", "invalid yaml: %v", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendDynamoDB
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// applyEnv fills unset values from the environment. An explicit endpoint
// variable always wins so tests can point at a local DynamoDB.
func (c *Config) applyEnv() {
	if c.Prefix == "" {
		c.Prefix = os.Getenv(EnvNamePrefix)
	}
	if c.AWS.Region == "" {
		c.AWS.Region = os.Getenv(EnvRegion)
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.AWS.Endpoint = v
	}
	if c.AWS.AccessKeyID == "" && c.AWS.SecretAccessKey == "" {
		c.AWS.AccessKeyID = os.Getenv(EnvAccessKeyID)
		c.AWS.SecretAccessKey = os.Getenv(EnvSecretAccessKey)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		cfg := sl.Current().Interface().(Config)
		if cfg.Backend == BackendDynamoDB && cfg.AWS.Region == "" {
			sl.ReportError(cfg.AWS.Region, "AWS.Region", "Region", "required_for_dynamodb", "")
		}
	}, Config{})
	return v
}

type entitySet struct {
	Entities []EntityConfig `validate:"dive"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := configError(validate.Struct(c)); err != nil {
		return err
	}
	return uniqueEntities(c.Entities)
}

// ValidateEntities checks only the entity declarations.
func (c *Config) ValidateEntities() error {
	if err := configError(validate.Struct(entitySet{Entities: c.Entities})); err != nil {
		return err
	}
	return uniqueEntities(c.Entities)
}

func configError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return errors.NewConfigurationError("config", "%s failed %q validation", first.Namespace(), first.Tag())
	}
	return errors.NewConfigurationError("config", "%v", err)
}

func uniqueEntities(entities []EntityConfig) error {
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if seen[e.ID] {
			return errors.NewConfigurationError("config", "entity %q declared twice", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Entity returns the declaration for id.
func (c *Config) Entity(id string) (EntityConfig, bool) {
	for _, e := range c.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityConfig{}, false
}

// NewLogger builds a zap logger for the configured preset and level.
func (l LoggingConfig) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if l.Level != "" {
		level, err := zap.ParseAtomicLevel(l.Level)
		if err != nil {
			return nil, errors.NewConfigurationError("config", "invalid log level %q", l.Level)
		}
		zc.Level = level
	}
	return zc.Build()
}
