package session

import (
	"context"
	"fmt"

	"github.com/secureexorg/libsecureex-go/alias"
	"github.com/secureexorg/libsecureex-go/config"
	"github.com/secureexorg/libsecureex-go/contentstore"
	"github.com/secureexorg/libsecureex-go/identity"
)

// NewContentStore builds the content store named by cfg.ContentBackend.
func NewContentStore(ctx context.Context, cfg config.Config) (contentstore.Store, error) {
	switch cfg.ContentBackend {
	case contentstore.BackendPinata:
		return contentstore.NewPinataClient(contentstore.PinataConfig{
			APIKey:    cfg.Pinata.APIKey,
			APISecret: cfg.Pinata.APISecret,
			Endpoint:  cfg.Pinata.Endpoint,
			Gateway:   cfg.Pinata.Gateway,
		})
	case contentstore.BackendLocal:
		return contentstore.NewLocalStore(cfg.LocalRoot(), cfg.Local.Gateway)
	case contentstore.BackendS3:
		return contentstore.NewS3Store(ctx, contentstore.S3Config{
			Bucket:     cfg.S3.Bucket,
			Region:     cfg.S3.Region,
			Endpoint:   cfg.S3.Endpoint,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			PublicBase: cfg.S3.PublicBase,
		})
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidContentBackend, cfg.ContentBackend)
	}
}

// NewResolver returns a DNSSEC-validating resolver when cfg.DNSSEC is set, a
// plain resolver querying cfg.Upstream when only that is set, and the system
// resolver otherwise.
func NewResolver(cfg config.DNSConfig) alias.TXTResolver {
	switch {
	case cfg.DNSSEC:
		return alias.NewDNSSECResolver(cfg.Upstream)
	case cfg.Upstream != "":
		return alias.NewUpstreamResolver(cfg.Upstream)
	default:
		return alias.DefaultResolver
	}
}

// NewProvider builds an identity provider from cfg. It returns nil, nil when
// no identity source is configured.
func NewProvider(cfg config.IdentityConfig) (identity.Provider, error) {
	switch {
	case cfg.RPCURL != "":
		return identity.NewRPCProvider(identity.RPCConfig{
			URL:      cfg.RPCURL,
			User:     cfg.RPCUser,
			Password: cfg.RPCPassword,
		}), nil
	case cfg.Keystore != "":
		return identity.LoadKeystore(cfg.Keystore, cfg.KeystorePassword, cfg.AccountIndex)
	case cfg.Address != "":
		return identity.NewStaticProvider(cfg.Address)
	default:
		return nil, nil
	}
}
