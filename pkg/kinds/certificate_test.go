package kinds

import (
	"context"
	"testing"
	"time"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/pkiobject"
	"github.com/go-pki/pkicore/pkg/tokeninst"
	"github.com/go-pki/pkicore/pkg/trustdomain"
)

type fakeToken struct{ id string }

func (t *fakeToken) TokenID() string         { return t.id }
func (t *fakeToken) AddRef() tokeninst.Token { return t }
func (t *fakeToken) Release()                {}

type fakeCertDriver struct {
	encodingByHandle map[uint64][]byte
}

func (d *fakeCertDriver) DestroyInstance(*tokeninst.Instance) {}
func (d *fakeCertDriver) CloneInstance(inst *tokeninst.Instance) *tokeninst.Instance {
	return tokeninst.New(inst.Token().AddRef(), inst.Handle(), inst.Label())
}
func (d *fakeCertDriver) EqualInstances(a, b *tokeninst.Instance) bool { return a.Equal(b) }
func (d *fakeCertDriver) DeleteStoredObject(context.Context, *tokeninst.Instance) error {
	return nil
}
func (d *fakeCertDriver) CertAttributes(_ context.Context, inst *tokeninst.Instance, a *arena.Arena) (pkiitem.ByteItem, error) {
	return pkiitem.ByteItem{Bytes: a.CopyBytes(d.encodingByHandle[inst.Handle()])}, nil
}

type fakeDecodedCert struct {
	encoding       pkiitem.ByteItem
	matchesUsage   bool
	validAtTime    bool
	trustedForUse  bool
	notBeforeValue pkiobject.Time
}

func (f *fakeDecodedCert) Encoding() pkiitem.ByteItem             { return f.encoding }
func (f *fakeDecodedCert) MatchesUsage(Usage) bool                { return f.matchesUsage }
func (f *fakeDecodedCert) IsValidAtTime(pkiobject.Time) bool      { return f.validAtTime }
func (f *fakeDecodedCert) IsTrustedForUsage(Usage) bool           { return f.trustedForUse }
func (f *fakeDecodedCert) NotBefore() pkiobject.Time              { return f.notBeforeValue }

type fakeCertDecoder struct {
	attrs map[string]*fakeDecodedCert // keyed by encoding bytes
}

func (d *fakeCertDecoder) Decode(_ context.Context, encoding pkiitem.ByteItem) (DecodedCert, error) {
	if dc, ok := d.attrs[string(encoding.Bytes)]; ok {
		dc.encoding = encoding
		return dc, nil
	}
	return &fakeDecodedCert{encoding: encoding}, nil
}

func newCertProto(t *testing.T, drv CertDriver, tok tokeninst.Token, handle uint64) *pkiobject.Object {
	t.Helper()
	inst := tokeninst.New(tok, handle, "")
	return pkiobject.Create(nil, inst, nil, nil, CertificateLockKind, drv)
}

func TestCreateFromProtoInterning(t *testing.T) {
	drv := &fakeCertDriver{encodingByHandle: map[uint64][]byte{1: []byte("same-der"), 2: []byte("same-der")}}
	decoder := &fakeCertDecoder{attrs: map[string]*fakeDecodedCert{}}
	cache, err := trustdomain.NewLRU(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	vt := NewCertificateVTable(decoder, cache, drv)

	tok := &fakeToken{id: "A"}
	proto1 := newCertProto(t, drv, tok, 1)
	proto2 := newCertProto(t, drv, tok, 2)

	obj1, err := vt.CreateFromProto(context.Background(), proto1)
	if err != nil {
		t.Fatal(err)
	}
	obj2, err := vt.CreateFromProto(context.Background(), proto2)
	if err != nil {
		t.Fatal(err)
	}
	if obj1 != obj2 {
		t.Fatal("expected the second promotion to return the interned first object")
	}
}

func TestUIDFromInstanceAndObjectAgree(t *testing.T) {
	drv := &fakeCertDriver{encodingByHandle: map[uint64][]byte{1: []byte("der-x")}}
	decoder := &fakeCertDecoder{attrs: map[string]*fakeDecodedCert{}}
	cache, err := trustdomain.NewLRU(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	vt := NewCertificateVTable(decoder, cache, drv)

	tok := &fakeToken{id: "A"}
	inst := tokeninst.New(tok, 1, "")
	proto := pkiobject.Create(nil, inst, nil, nil, CertificateLockKind, drv)

	a := arena.New()
	fromInst, err := vt.UIDFromInstance(context.Background(), inst, a)
	if err != nil {
		t.Fatal(err)
	}

	obj, err := vt.CreateFromProto(context.Background(), proto)
	if err != nil {
		t.Fatal(err)
	}
	fromObj, err := vt.UIDFromObject(obj)
	if err != nil {
		t.Fatal(err)
	}
	if !fromInst.Equal(fromObj) {
		t.Fatalf("UIDFromInstance %+v != UIDFromObject %+v", fromInst, fromObj)
	}
}

func TestBestCertificateEmptyAndSingle(t *testing.T) {
	if got := BestCertificate(context.Background(), nil, nil, Usage{}); got != nil {
		t.Fatal("expected nil for empty input")
	}

	drv := &fakeCertDriver{}
	proto := newCertProto(t, drv, &fakeToken{id: "A"}, 1)
	cert := WrapCertificate(proto)
	cert.SetDecoded(&fakeDecodedCert{matchesUsage: true, validAtTime: true, trustedForUse: true})

	got := BestCertificate(context.Background(), []*Certificate{cert}, nil, Usage{})
	if got != cert {
		t.Fatal("expected the single certificate to be returned")
	}
	if got.RefCount() != 2 {
		t.Fatalf("expected best certificate to be add-ref'd, got refcount %d", got.RefCount())
	}
}

func TestBestCertificateSelectionScenario(t *testing.T) {
	drv := &fakeCertDriver{}
	mk := func(handle uint64, matches, valid, trusted bool, notBefore time.Time) *Certificate {
		proto := newCertProto(t, drv, &fakeToken{id: "A"}, handle)
		c := WrapCertificate(proto)
		c.SetDecoded(&fakeDecodedCert{
			matchesUsage:   matches,
			validAtTime:    valid,
			trustedForUse:  trusted,
			notBeforeValue: pkiobject.At(notBefore),
		})
		return c
	}

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c1 := mk(1, true, false, false, base)               // matches usage but expired
	c2 := mk(2, true, true, false, base.AddDate(1, 0, 0)) // matches, valid, untrusted, newer
	c3 := mk(3, true, true, true, base)                   // matches, valid, trusted, older

	got := BestCertificate(context.Background(), []*Certificate{c1, c2, c3}, nil, Usage{})
	if got != c3 {
		t.Fatalf("expected c3 (trusted) to win, got a different certificate")
	}
}
