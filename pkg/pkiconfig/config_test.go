package pkiconfig

import (
	"testing"

	"github.com/go-pki/pkicore/pkg/pkiobject"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.LockKind() != pkiobject.PlainLock {
		t.Fatalf("expected default lock kind plain, got %v", c.LockKind())
	}
	if c.TrustCacheSize != 4096 {
		t.Fatalf("expected default trust cache size 4096, got %d", c.TrustCacheSize)
	}
	if c.DefaultBulkFetchCap != 0 {
		t.Fatalf("expected default bulk fetch cap 0 (unbounded), got %d", c.DefaultBulkFetchCap)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PKICORE_DEFAULT_LOCK_KIND", "reentrant")
	t.Setenv("PKICORE_TRUST_CACHE_SIZE", "128")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.LockKind() != pkiobject.ReentrantLock {
		t.Fatalf("expected reentrant lock kind, got %v", c.LockKind())
	}
	if c.TrustCacheSize != 128 {
		t.Fatalf("expected trust cache size 128, got %d", c.TrustCacheSize)
	}
}
