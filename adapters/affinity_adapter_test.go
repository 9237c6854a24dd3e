package adapters_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/momentics/hioload-rt/adapters"
	"github.com/momentics/hioload-rt/api"
)

func TestAffinityAdapterRejectsBadCPU(t *testing.T) {
	a := adapters.NewAffinityAdapter()
	if err := a.Pin(-5); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("Pin(-5) = %v, want ErrInvalidArgument", err)
	}
	if cpu, _ := a.Get(); cpu != -1 || a.ImmutableDescriptor().Pinned {
		t.Fatal("failed Pin must leave the adapter unbound")
	}
	if err := a.Unpin(); err != nil {
		t.Fatalf("Unpin on unbound adapter: %v", err)
	}
}

func TestAffinityAdapterPinUnpin(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux only")
	}
	a := adapters.NewAffinityAdapter()
	if err := a.Pin(0); err != nil {
		t.Skipf("cannot pin to cpu 0 here: %v", err)
	}
	d := a.ImmutableDescriptor()
	if !d.Pinned || d.CPUID != 0 || d.Scope != api.ScopeThread {
		t.Fatalf("descriptor = %+v", d)
	}
	if err := a.Unpin(); err != nil {
		t.Fatalf("Unpin: %v", err)
	}
	if cpu, _ := a.Get(); cpu != -1 {
		t.Fatalf("Get after Unpin = %d", cpu)
	}
}
