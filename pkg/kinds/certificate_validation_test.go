package kinds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-pki/pkicore/pkg/arena"
	"github.com/go-pki/pkicore/pkg/pkierr"
	"github.com/go-pki/pkicore/pkg/pkiitem"
	"github.com/go-pki/pkicore/pkg/pkiobject"
	"github.com/go-pki/pkicore/pkg/tokeninst"
	"github.com/go-pki/pkicore/pkg/trustdomain"
)

// missingAttrDriver reports a missing-encoding attribute read with no
// error, exercising the "invalid argument" branch of NewCertificateVTable's
// UIDFromInstance.
type missingAttrDriver struct{ fakeCertDriver }

func (missingAttrDriver) CertAttributes(context.Context, *tokeninst.Instance, *arena.Arena) (pkiitem.ByteItem, error) {
	return pkiitem.ByteItem{}, nil
}

func newValidationVTable(t *testing.T, driver CertDriver) pkiobject.VTable {
	t.Helper()
	cache, err := trustdomain.NewLRU(4, 0)
	require.NoError(t, err)
	return NewCertificateVTable(&fakeCertDecoder{attrs: map[string]*fakeDecodedCert{}}, cache, driver)
}

func TestCertificateVTableValidation(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T) (pkiobject.VTable, *pkiobject.Object)
		op        string // "object" or "instance" or "promote"
		wantErrIs error
	}{
		{
			name: "UIDFromObject rejects an object with no decoded form",
			build: func(t *testing.T) (pkiobject.VTable, *pkiobject.Object) {
				drv := &fakeCertDriver{}
				vt := newValidationVTable(t, drv)
				proto := newCertProto(t, drv, &fakeToken{id: "A"}, 1)
				return vt, proto
			},
			op:        "object",
			wantErrIs: pkierr.ErrInvalidArgument,
		},
		{
			name: "UIDFromObject rejects an empty encoding",
			build: func(t *testing.T) (pkiobject.VTable, *pkiobject.Object) {
				drv := &fakeCertDriver{}
				vt := newValidationVTable(t, drv)
				proto := newCertProto(t, drv, &fakeToken{id: "A"}, 1)
				proto.SetDecoded(&fakeDecodedCert{})
				return vt, proto
			},
			op:        "object",
			wantErrIs: pkierr.ErrInvalidArgument,
		},
		{
			name: "UIDFromInstance rejects an empty encoding",
			build: func(t *testing.T) (pkiobject.VTable, *pkiobject.Object) {
				drv := &missingAttrDriver{}
				vt := newValidationVTable(t, drv)
				proto := newCertProto(t, &fakeCertDriver{}, &fakeToken{id: "A"}, 1)
				return vt, proto
			},
			op:        "instance",
			wantErrIs: pkierr.ErrInvalidArgument,
		},
		{
			name: "CreateFromProto rejects a proto-object with no instances",
			build: func(t *testing.T) (pkiobject.VTable, *pkiobject.Object) {
				drv := &fakeCertDriver{}
				vt := newValidationVTable(t, drv)
				proto := pkiobject.Create(nil, nil, nil, nil, CertificateLockKind, drv)
				return vt, proto
			},
			op:        "promote",
			wantErrIs: pkierr.ErrInvalidArgument,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vt, obj := tc.build(t)
			var err error
			switch tc.op {
			case "object":
				_, err = vt.UIDFromObject(obj)
			case "instance":
				insts := obj.GetInstances()
				require.Len(t, insts, 1)
				err = func() error {
					_, e := vt.UIDFromInstance(context.Background(), insts[0], arena.New())
					return e
				}()
			case "promote":
				_, err = vt.CreateFromProto(context.Background(), obj)
			}
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.wantErrIs), "expected error to wrap %v, got %v", tc.wantErrIs, err)
		})
	}
}
