package main

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/tokeninst"
)

// mockToken is an opaque, named token identity; the demo driver never
// talks to a real device.
type mockToken struct{ id string }

func (t *mockToken) TokenID() string         { return t.id }
func (t *mockToken) AddRef() tokeninst.Token { return t }
func (t *mockToken) Release()                {}

// mockDriver backs the certificate Driver interface from a fixture: each
// instance's DER encoding is looked up by (token, handle), and every
// attribute read is rate-limited, standing in for the I/O cost a real
// token's driver would pay.
type mockDriver struct {
	limiter *rate.Limiter

	mu    sync.Mutex
	certs map[tokeninst.Key]fixtureCert
}

func newMockDriver(certs []fixtureCert) *mockDriver {
	d := &mockDriver{
		limiter: rate.NewLimiter(rate.Limit(50), 10),
		certs:   make(map[tokeninst.Key]fixtureCert, len(certs)),
	}
	for _, c := range certs {
		d.certs[tokeninst.Key{Token: c.Token, Handle: c.Handle}] = c
	}
	return d
}

func (d *mockDriver) instances() []*tokeninst.Instance {
	out := make([]*tokeninst.Instance, 0, len(d.certs))
	for key, c := range d.certs {
		out = append(out, tokeninst.New(&mockToken{id: key.Token}, key.Handle, c.Label))
	}
	return out
}

func (d *mockDriver) DestroyInstance(*tokeninst.Instance) {}

func (d *mockDriver) CloneInstance(inst *tokeninst.Instance) *tokeninst.Instance {
	return tokeninst.New(inst.Token().AddRef(), inst.Handle(), inst.Label())
}

func (d *mockDriver) EqualInstances(a, b *tokeninst.Instance) bool { return a.Equal(b) }

func (d *mockDriver) DeleteStoredObject(context.Context, *tokeninst.Instance) error { return nil }

func (d *mockDriver) CertAttributes(ctx context.Context, inst *tokeninst.Instance, a *arena.Arena) (pkiitem.ByteItem, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return pkiitem.ByteItem{}, fmt.Errorf("mock driver rate limit: %w", err)
	}
	d.mu.Lock()
	c, ok := d.certs[inst.Key()]
	d.mu.Unlock()
	if !ok {
		return pkiitem.ByteItem{}, fmt.Errorf("no fixture entry for %s/%d", inst.Token().TokenID(), inst.Handle())
	}
	return pkiitem.ByteItem{Bytes: a.CopyBytes([]byte(c.DER))}, nil
}
