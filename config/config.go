// Package config holds the library configuration: defaults, a TOML file,
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/secureexorg/libsecureex-go/contentstore"
	"github.com/secureexorg/libsecureex-go/recordstore"
)

// Default values.
const (
	DefaultStorageKey     = "secure_ex_files"
	DefaultRecordBackend  = recordstore.BackendBolt
	DefaultContentBackend = contentstore.BackendLocal
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultPinataEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	DefaultPinataGateway  = "https://gateway.pinata.cloud/ipfs/"
	DefaultS3Region       = "us-east-1"

	configFileName = "config.toml"
	dataDirName    = ".secureex"
)

// Environment variables read by ApplyEnv.
const (
	EnvDataDir         = "SECUREEX_DATA_DIR"
	EnvLogLevel        = "SECUREEX_LOG_LEVEL"
	EnvPinataAPIKey    = "SECUREEX_PINATA_API_KEY"
	EnvPinataAPISecret = "SECUREEX_PINATA_API_SECRET"
	EnvPinataGateway   = "SECUREEX_PINATA_GATEWAY"
	EnvRPCURL          = "SECUREEX_RPC_URL"
	EnvKeystorePass    = "SECUREEX_KEYSTORE_PASSWORD"
)

// PinataConfig configures the Pinata pinning backend.
type PinataConfig struct {
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
	Endpoint  string `toml:"endpoint"`
	Gateway   string `toml:"gateway"`
}

// LocalConfig configures the local content directory. An empty Root means
// <data_dir>/content.
type LocalConfig struct {
	Root    string `toml:"root"`
	Gateway string `toml:"gateway"`
}

// S3Config configures the S3 content backend.
type S3Config struct {
	Bucket     string `toml:"bucket"`
	Region     string `toml:"region"`
	Endpoint   string `toml:"endpoint"`
	AccessKey  string `toml:"access_key"`
	SecretKey  string `toml:"secret_key"`
	PublicBase string `toml:"public_base"`
}

// DNSConfig configures handle resolution.
type DNSConfig struct {
	Upstream string `toml:"upstream"` // host:port; empty uses the system resolver, or DefaultUpstream with DNSSEC
	DNSSEC   bool   `toml:"dnssec"`
}

// IdentityConfig selects how the caller's wallet address is obtained. The
// first of RPCURL, Keystore and Address that is set wins; with none set the
// provider must be supplied by the caller.
type IdentityConfig struct {
	Address      string `toml:"address"`
	RPCURL       string `toml:"rpc_url"`
	RPCUser      string `toml:"rpc_user"`
	RPCPassword  string `toml:"rpc_password"`
	Keystore     string `toml:"keystore"`
	AccountIndex uint32 `toml:"account_index"`

	// KeystorePassword is never written to the config file.
	KeystorePassword string `toml:"-"`
}

// Config is the full library configuration.
type Config struct {
	DataDir        string `toml:"data_dir"`
	StorageKey     string `toml:"storage_key"`
	RecordBackend  string `toml:"record_backend"`
	ContentBackend string `toml:"content_backend"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	LogFile        string `toml:"log_file"`

	Pinata   PinataConfig   `toml:"pinata"`
	Local    LocalConfig    `toml:"local"`
	S3       S3Config       `toml:"s3"`
	DNS      DNSConfig      `toml:"dns"`
	Identity IdentityConfig `toml:"identity"`
}

// DefaultDataDir returns ~/.secureex, or .secureex in the working directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:        DefaultDataDir(),
		StorageKey:     DefaultStorageKey,
		RecordBackend:  DefaultRecordBackend,
		ContentBackend: DefaultContentBackend,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Pinata: PinataConfig{
			Endpoint: DefaultPinataEndpoint,
			Gateway:  DefaultPinataGateway,
		},
		S3: S3Config{Region: DefaultS3Region},
	}
}

// LoadConfig reads a TOML config file over DefaultConfig. Keys absent from
// the file keep their defaults; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML, creating parent directories. The file holds
// credentials, so it is written 0600.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}

	if _, err := f.WriteString("# SecureEx Configuration\n\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return f.Close()
}

// ApplyEnv returns cfg with values from env overriding it. Empty values are
// ignored. Pass EnvMap() for the process environment.
func ApplyEnv(cfg Config, env map[string]string) Config {
	set := func(dst *string, key string) {
		if v := env[key]; v != "" {
			*dst = v
		}
	}
	set(&cfg.DataDir, EnvDataDir)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.Pinata.APIKey, EnvPinataAPIKey)
	set(&cfg.Pinata.APISecret, EnvPinataAPISecret)
	set(&cfg.Pinata.Gateway, EnvPinataGateway)
	set(&cfg.Identity.RPCURL, EnvRPCURL)
	set(&cfg.Identity.KeystorePassword, EnvKeystorePass)
	return cfg
}

// EnvMap returns the process environment variables read by ApplyEnv.
func EnvMap() map[string]string {
	env := make(map[string]string)
	for _, key := range []string{EnvDataDir, EnvLogLevel, EnvPinataAPIKey, EnvPinataAPISecret, EnvPinataGateway, EnvRPCURL, EnvKeystorePass} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env
}

// LocalRoot returns the local content directory, defaulting under DataDir.
func (c Config) LocalRoot() string {
	if c.Local.Root != "" {
		return c.Local.Root
	}
	return filepath.Join(c.DataDir, "content")
}
