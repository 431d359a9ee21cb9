package tokeninst

import (
	"context"
	"testing"
)

type fakeToken struct{ id string }

func (t *fakeToken) TokenID() string { return t.id }
func (t *fakeToken) AddRef() Token   { return t }
func (t *fakeToken) Release()        {}

func TestInstanceEqual(t *testing.T) {
	tokA := &fakeToken{id: "A"}
	tokB := &fakeToken{id: "B"}

	i1 := New(tokA, 1, "x")
	i2 := New(tokA, 1, "y")
	i3 := New(tokA, 2, "x")
	i4 := New(tokB, 1, "x")

	if !i1.Equal(i2) {
		t.Fatal("same (token, handle) with different labels should be equal")
	}
	if i1.Equal(i3) {
		t.Fatal("different handle should not be equal")
	}
	if i1.Equal(i4) {
		t.Fatal("different token should not be equal")
	}
}

func TestSetLabel(t *testing.T) {
	inst := New(&fakeToken{id: "A"}, 1, "old")
	inst.SetLabel("new")
	if inst.Label() != "new" {
		t.Fatalf("got %q, want %q", inst.Label(), "new")
	}
}

type recordingDriver struct {
	destroyed []*Instance
}

func (d *recordingDriver) DestroyInstance(inst *Instance) { d.destroyed = append(d.destroyed, inst) }
func (d *recordingDriver) CloneInstance(inst *Instance) *Instance {
	return New(inst.Token().AddRef(), inst.Handle(), inst.Label())
}
func (d *recordingDriver) EqualInstances(a, b *Instance) bool { return a.Equal(b) }
func (d *recordingDriver) DeleteStoredObject(_ context.Context, _ *Instance) error {
	return nil
}

func TestCloneAndDestroy(t *testing.T) {
	drv := &recordingDriver{}
	orig := New(&fakeToken{id: "A"}, 7, "nick")
	clone := Clone(drv, orig)
	if !clone.Equal(orig) {
		t.Fatal("clone should compare equal to original")
	}
	Destroy(drv, orig)
	if len(drv.destroyed) != 1 || drv.destroyed[0] != orig {
		t.Fatal("expected Destroy to forward to driver exactly once")
	}
}
