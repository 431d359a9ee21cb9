// Package pkiconfig loads process-wide defaults from the environment: a
// lock kind for proto-objects, the trust-domain cache's capacity and TTL,
// and a cap for bulk GetObjects calls. The core packages do not read this
// configuration themselves; callers load it and pass the values on (for
// example when building a collection or a trust-domain cache). Every
// field is zero-value safe, so an unconfigured process still behaves
// sensibly.
package pkiconfig

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-pki/pkicore/pkg/pkiobject"
)

// Config is read from the environment under the PKICORE prefix, e.g.
// PKICORE_DEFAULT_LOCK_KIND, PKICORE_TRUST_CACHE_SIZE.
type Config struct {
	// DefaultLockKind selects the lock discipline for kinds that don't
	// pin one themselves: "plain" or "reentrant". Certificates and keys
	// always specify their own kind (§5); this only matters for callers
	// building ad hoc vtables.
	DefaultLockKind string `envconfig:"DEFAULT_LOCK_KIND" default:"plain"`

	// TrustCacheSize bounds the default trust-domain LRU cache.
	TrustCacheSize int `envconfig:"TRUST_CACHE_SIZE" default:"4096"`

	// TrustCacheTTLSeconds is the default entry TTL for the trust-domain
	// cache; zero means entries never expire on their own.
	TrustCacheTTLSeconds int `envconfig:"TRUST_CACHE_TTL_SECONDS" default:"0"`

	// DefaultBulkFetchCap is a max for callers to pass to
	// GetObjects/GetCertificates/GetCRLs; zero means unbounded. Those
	// methods do not read it themselves.
	DefaultBulkFetchCap int `envconfig:"DEFAULT_BULK_FETCH_CAP" default:"0"`
}

// Load reads Config from the environment, applying defaults for anything
// unset. It only fails if an environment variable is present but cannot
// be parsed into its field's type.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("pkicore", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LockKind parses DefaultLockKind, falling back to pkiobject.PlainLock for
// anything other than an exact "reentrant" match.
func (c Config) LockKind() pkiobject.LockKind {
	if c.DefaultLockKind == "reentrant" {
		return pkiobject.ReentrantLock
	}
	return pkiobject.PlainLock
}

// TrustCacheTTL returns TrustCacheTTLSeconds as a time.Duration.
func (c Config) TrustCacheTTL() time.Duration {
	return time.Duration(c.TrustCacheTTLSeconds) * time.Second
}
