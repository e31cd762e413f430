package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bsobat/inventra/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. Absent fields keep the earlier layer's value.
type JsonConfig struct {
	DataDir  string `json:"data_dir"`
	DBPath   string `json:"db_path"`
	ImageDir string `json:"image_dir"`

	Provider string `json:"provider"`
	DirRoot  string `json:"dir_root"`

	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3Bucket    string `json:"s3_bucket"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
	S3Prefix    string `json:"s3_prefix"`

	SyncTimeout   *timex.Duration `json:"sync_timeout"`
	RetryAttempts *uint64         `json:"retry_attempts"`
}

// parseJson overlays cfg with values loaded from the JSON file at path. An
// empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	setIfNotEmpty(&cfg.DataDir, jc.DataDir)
	setIfNotEmpty(&cfg.DBPath, jc.DBPath)
	setIfNotEmpty(&cfg.ImageDir, jc.ImageDir)
	setIfNotEmpty(&cfg.Provider, jc.Provider)
	setIfNotEmpty(&cfg.DirRoot, jc.DirRoot)
	setIfNotEmpty(&cfg.S3.Region, jc.S3Region)
	setIfNotEmpty(&cfg.S3.Endpoint, jc.S3Endpoint)
	setIfNotEmpty(&cfg.S3.Bucket, jc.S3Bucket)
	setIfNotEmpty(&cfg.S3.AccessKey, jc.S3AccessKey)
	setIfNotEmpty(&cfg.S3.SecretKey, jc.S3SecretKey)
	setIfNotEmpty(&cfg.S3.Prefix, jc.S3Prefix)

	if jc.SyncTimeout != nil {
		cfg.SyncTimeout = time.Duration(jc.SyncTimeout.Duration)
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
