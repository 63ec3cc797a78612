package config

import (
	"fmt"
	"os"
	"time"
)

// ServiceConfig represents the configuration for the classification service
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// InputConfig represents the local input validation rules
type InputConfig struct {
	MinContentChars int
}

// UploadConfig represents the rules for file uploads
type UploadConfig struct {
	MaxBytes   int64
	Extensions []string
	MediaTypes []string
}

// StorageConfig represents the configuration for persisted state
type StorageConfig struct {
	Type           string
	SQLitePath     string
	MySQLDSN       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	PersistHistory bool
}

// ReplyConfig represents the configuration for sending replies
type ReplyConfig struct {
	SMTPAddress string
	From        string
}

// GetService returns the classification service configuration
func (c *Config) GetService() (ServiceConfig, error) {
	timeout, err := c.GetDuration("service.timeout")
	if err != nil {
		return ServiceConfig{}, fmt.Errorf("invalid service timeout: %w", err)
	}
	return ServiceConfig{
		BaseURL: c.GetString("service.base_url"),
		Timeout: timeout,
	}, nil
}

// GetInput returns the input validation configuration
func (c *Config) GetInput() InputConfig {
	return InputConfig{
		MinContentChars: c.GetInt("input.min_content_chars"),
	}
}

// GetUpload returns the upload configuration
func (c *Config) GetUpload() UploadConfig {
	return UploadConfig{
		MaxBytes:   c.GetInt64("upload.max_bytes"),
		Extensions: c.GetStringSlice("upload.extensions"),
		MediaTypes: c.GetStringSlice("upload.media_types"),
	}
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:           c.GetString("storage.type"),
		SQLitePath:     os.ExpandEnv(c.GetString("storage.sqlite_path")),
		MySQLDSN:       c.GetString("storage.mysql_dsn"),
		RedisAddr:      c.GetString("storage.redis_addr"),
		RedisPassword:  c.GetString("storage.redis_password"),
		RedisDB:        c.GetInt("storage.redis_db"),
		RedisPrefix:    c.GetString("storage.redis_prefix"),
		PersistHistory: c.GetBool("history.persist"),
	}
}

// GetReply returns the reply configuration
func (c *Config) GetReply() ReplyConfig {
	return ReplyConfig{
		SMTPAddress: c.GetString("reply.smtp_address"),
		From:        c.GetString("reply.from"),
	}
}
