package config

import "errors"

var (
	// ErrInvalidRecordBackend indicates the record store backend is not recognized.
	ErrInvalidRecordBackend = errors.New("config: invalid record backend (must be \"bolt\", \"sqlite\", or \"memory\")")

	// ErrInvalidContentBackend indicates the content store backend is not recognized.
	ErrInvalidContentBackend = errors.New("config: invalid content backend (must be \"pinata\", \"local\", or \"s3\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"text\" or \"json\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrEmptyStorageKey indicates the record store key is empty.
	ErrEmptyStorageKey = errors.New("config: storage key must not be empty")

	// ErrMissingPinataCredentials indicates the pinata backend has no API key pair.
	ErrMissingPinataCredentials = errors.New("config: pinata backend requires api_key and api_secret")

	// ErrMissingS3Bucket indicates the s3 backend has no bucket.
	ErrMissingS3Bucket = errors.New("config: s3 backend requires a bucket")

	// ErrInvalidDNSUpstream indicates the DNS upstream address is malformed.
	ErrInvalidDNSUpstream = errors.New("config: invalid DNS upstream address")

	// ErrInvalidIdentityAddress indicates identity.address is not a wallet address.
	ErrInvalidIdentityAddress = errors.New("config: invalid identity address")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigFile indicates the configuration file is not valid TOML.
	ErrInvalidConfigFile = errors.New("config: invalid configuration file")
)
