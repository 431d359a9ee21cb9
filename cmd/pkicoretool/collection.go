package main

import (
	"context"
	"fmt"

	"github.com/go-pki/pkicore/pkg/collection"
	"github.com/go-pki/pkicore/pkg/kinds"
	"github.com/go-pki/pkicore/pkg/pkiconfig"
	"github.com/go-pki/pkicore/pkg/pkilog"
	"github.com/go-pki/pkicore/pkg/pkiobject"
	"github.com/go-pki/pkicore/pkg/trustdomain"
)

// buildCertCollection loads the fixture at path, wires a mock driver and
// decoder, and ingests every instance as a promoted certificate object.
func buildCertCollection(ctx context.Context, path string) (*collection.Collection, int, error) {
	f, err := loadFixture(path)
	if err != nil {
		return nil, 0, err
	}

	cfg, err := pkiconfig.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("loading config: %w", err)
	}

	cache, err := trustdomain.NewLRU(cfg.TrustCacheSize, cfg.TrustCacheTTL())
	if err != nil {
		return nil, 0, fmt.Errorf("building trust-domain cache: %w", err)
	}

	driver := newMockDriver(f.Certificates)
	decoder := newFixtureDecoder(f.Certificates)
	vt := kinds.NewCertificateVTable(decoder, cache, driver)
	coll := collection.New(pkiobject.Certificate, vt, kinds.CertificateLockKind, nil, nil, driver)

	promoted := 0
	for _, inst := range driver.instances() {
		if _, err := coll.AddInstanceAsObject(ctx, inst); err != nil {
			pkilog.From(ctx).Warnw("failed to ingest fixture instance", "token", inst.Token().TokenID(), "handle", inst.Handle(), "error", err)
			continue
		}
		promoted++
	}
	return coll, promoted, nil
}
