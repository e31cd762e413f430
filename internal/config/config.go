// Package config holds runtime settings for the Inventra CLI. Values are
// layered: defaults, then an optional JSON file, then command-line flags,
// with later sources taking precedence.
package config

import "time"

// Backend names accepted in Provider.
const (
	BackendDir = "dir"
	BackendS3  = "s3"
)

// S3Settings configures the S3 backup backend. Endpoint is optional and
// enables S3-compatible servers such as MinIO.
type S3Settings struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Config holds runtime settings.
//
// Fields:
//   - DataDir: directory holding the database, images and sync state.
//   - DBPath / ImageDir: derived from DataDir when left empty.
//   - Provider: backup backend, "dir" or "s3".
//   - DirRoot: target directory for the "dir" backend.
//   - SyncTimeout: per provider call; RetryAttempts: retry budget per call.
type Config struct {
	DataDir  string
	DBPath   string
	ImageDir string

	Provider string
	DirRoot  string
	S3       S3Settings

	SyncTimeout   time.Duration
	RetryAttempts uint64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.Provider = BackendDir
	c.DirRoot = "backup"
	c.S3.Region = "us-east-1"
	c.SyncTimeout = 30 * time.Second
	c.RetryAttempts = 3
}

// Finalize derives dependent paths that were not set explicitly. Call it
// after all layers have been applied.
func (c *Config) Finalize() {
	if c.DBPath == "" {
		c.DBPath = c.DataDir + "/inventra.db"
	}
	if c.ImageDir == "" {
		c.ImageDir = c.DataDir + "/images"
	}
}

// LoadConfig constructs a Config with defaults overlaid by the JSON file at
// path (if non-empty). Flag overrides are applied by the CLI layer before
// Finalize.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
