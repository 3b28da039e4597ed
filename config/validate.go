package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/secureexorg/libsecureex-go/address"
	"github.com/secureexorg/libsecureex-go/contentstore"
	"github.com/secureexorg/libsecureex-go/recordstore"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validRecordBackends = map[string]bool{
	recordstore.BackendBolt:   true,
	recordstore.BackendSQLite: true,
	recordstore.BackendMemory: true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.StorageKey == "" {
		return ErrEmptyStorageKey
	}

	if !validRecordBackends[cfg.RecordBackend] {
		return ErrInvalidRecordBackend
	}

	switch cfg.ContentBackend {
	case contentstore.BackendPinata:
		if cfg.Pinata.APIKey == "" || cfg.Pinata.APISecret == "" {
			return ErrMissingPinataCredentials
		}
	case contentstore.BackendS3:
		if cfg.S3.Bucket == "" {
			return ErrMissingS3Bucket
		}
	case contentstore.BackendLocal:
	default:
		return ErrInvalidContentBackend
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if f := strings.ToLower(cfg.LogFormat); f != "text" && f != "json" {
		return ErrInvalidLogFormat
	}

	if cfg.DNS.Upstream != "" {
		if err := validateAddr(cfg.DNS.Upstream); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDNSUpstream, err)
		}
	}

	if cfg.Identity.Address != "" {
		if err := address.Validate(cfg.Identity.Address); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidIdentityAddress, err)
		}
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
