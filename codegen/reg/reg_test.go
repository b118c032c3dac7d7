package reg

import "testing"

// TestGetGPRReturnsLowestFree verifies allocation order is strictly by
// ascending index.
func TestGetGPRReturnsLowestFree(t *testing.T) {
	f := New()
	r0 := f.GetGPR()
	r1 := f.GetGPR()
	if r0.Idx != 0 || r1.Idx != 1 {
		t.Errorf("got indices %d, %d, want 0, 1", r0.Idx, r1.Idx)
	}
	f.Free(r0)
	r2 := f.GetGPR()
	if r2.Idx != 0 {
		t.Errorf("got index %d after freeing r0, want 0", r2.Idx)
	}
}

// TestGetFPRReturnsLowestFree mirrors TestGetGPRReturnsLowestFree for
// the floating-point bank.
func TestGetFPRReturnsLowestFree(t *testing.T) {
	f := New()
	r := f.GetFPR()
	if r.Idx != 0 || r.Bank != FPR {
		t.Errorf("got %+v, want bank FPR idx 0", r)
	}
	if r.Name() != "$f4" {
		t.Errorf("got name %q, want $f4", r.Name())
	}
}

// TestGPRExhaustionPanics verifies allocating past the 8-register GPR
// bank panics rather than silently aliasing a busy register.
func TestGPRExhaustionPanics(t *testing.T) {
	f := New()
	for i := 0; i < numGPR; i++ {
		f.GetGPR()
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic on GPR bank exhaustion")
		}
	}()
	f.GetGPR()
}

// TestFreeIsIdempotent verifies freeing an already-free register is a
// no-op, not an error.
func TestFreeIsIdempotent(t *testing.T) {
	f := New()
	r := f.GetGPR()
	f.Free(r)
	f.Free(r)
	got := f.GetGPR()
	if got.Idx != 0 {
		t.Errorf("got index %d, want 0", got.Idx)
	}
}

// TestFreeRvalueRespectsFromLvalue verifies a register backed by a
// named variable survives FreeRvalue, while a scratch register is
// released.
func TestFreeRvalueRespectsFromLvalue(t *testing.T) {
	f := New()
	scratch := f.GetGPR()
	named := f.GetGPR()

	f.FreeRvalue(Freeable{Kind: RvalueRegister, Reg: named, FromLvalue: true})
	if !f.gpr.busy[named.Idx] {
		t.Error("from_lvalue register was freed, want it to survive")
	}

	f.FreeRvalue(Freeable{Kind: RvalueRegister, Reg: scratch, FromLvalue: false})
	if f.gpr.busy[scratch.Idx] {
		t.Error("scratch register was not freed")
	}
}

// TestFreeRvalueIgnoresNonRegisterKinds verifies a CONST or VOID rvalue
// is left alone even if a register happens to be set on it.
func TestFreeRvalueIgnoresNonRegisterKinds(t *testing.T) {
	f := New()
	r := f.GetGPR()
	f.FreeRvalue(Freeable{Kind: RvalueConst, Reg: r})
	if !f.gpr.busy[r.Idx] {
		t.Error("CONST rvalue incorrectly freed a register")
	}
}
