package domain

import "testing"

func mustSpace(t *testing.T, bits, succ int) Space {
	t.Helper()
	sp, err := NewSpace(bits, succ)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	return sp
}

func TestSpace_FromUint64RoundTrip(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	for _, v := range []uint64{0, 1, 42, 255} {
		id := sp.FromUint64(v)
		if got := id.ToBigInt().Uint64(); got != v {
			t.Errorf("FromUint64(%d).ToBigInt() = %d", v, got)
		}
	}
}

func TestSpace_FromHexStringRejectsWrongLength(t *testing.T) {
	sp := mustSpace(t, 16, 3)
	if _, err := sp.FromHexString("ab"); err == nil {
		t.Fatal("expected error for short hex id")
	}
	id, err := sp.FromHexString("00ff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ToHexString(false) != "00ff" {
		t.Errorf("got %q", id.ToHexString(false))
	}
}

func TestID_InRange_NoWrap(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	low, x, high := sp.FromUint64(2), sp.FromUint64(5), sp.FromUint64(10)
	if !sp.InRange(true, low, x, high, true) {
		t.Error("expected x in (2,10]")
	}
	if sp.InRange(true, low, low, high, true) {
		t.Error("open low should exclude low itself")
	}
	if !sp.InRange(false, low, low, high, true) {
		t.Error("closed low should include low itself")
	}
}

func TestID_InRange_Wrap(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	low, high := sp.FromUint64(250), sp.FromUint64(5)
	above := sp.FromUint64(252)
	below := sp.FromUint64(3)
	outside := sp.FromUint64(100)
	if !sp.InRange(true, low, above, high, true) {
		t.Error("expected wrap-around arc to include value above low")
	}
	if !sp.InRange(true, low, below, high, true) {
		t.Error("expected wrap-around arc to include value below high")
	}
	if sp.InRange(true, low, outside, high, true) {
		t.Error("expected value outside wrap-around arc to be excluded")
	}
}

func TestID_InRange_EmptyAndFullArcs(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	same := sp.FromUint64(7)
	x := sp.FromUint64(7)
	if sp.InRange(true, same, x, same, false) {
		t.Error("fully open identical endpoints should be empty")
	}
	if !sp.InRange(false, same, x, same, true) {
		t.Error("fully closed identical endpoints should contain everything")
	}
}

func TestID_Between(t *testing.T) {
	sp := mustSpace(t, 8, 3)
	low, x, high := sp.FromUint64(10), sp.FromUint64(12), sp.FromUint64(20)
	if !x.Between(low, high) {
		t.Error("expected 12 in (10,20]")
	}
	if low.Between(low, high) {
		t.Error("Between is open at the low end")
	}
	if !high.Between(low, high) {
		t.Error("Between is closed at the high end")
	}
}

func TestSpace_AddPow2Mod(t *testing.T) {
	sp := mustSpace(t, 4, 3)
	base := sp.FromUint64(14)
	got := sp.AddPow2Mod(base, 1) // (14+2) mod 16 = 0
	if got.ToBigInt().Uint64() != 0 {
		t.Errorf("AddPow2Mod wrapped incorrectly: got %d", got.ToBigInt().Uint64())
	}
}

func TestSpace_NewIdFromStringDeterministic(t *testing.T) {
	sp := mustSpace(t, 32, 3)
	a := sp.NewIdFromString("testKey")
	b := sp.NewIdFromString("testKey")
	if !a.Equal(b) {
		t.Error("hashing the same string twice should produce the same id")
	}
	if err := sp.IsValidID(a); err != nil {
		t.Errorf("hashed id should be valid: %v", err)
	}
}
