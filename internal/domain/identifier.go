package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Space describes the identifier space of a Chord ring: its bit width,
// the derived byte length of an ID, and the fixed size of the successor
// list each node maintains for fault tolerance.
type Space struct {
	Bits         int // m: number of bits in the identifier space
	ByteLen      int // ceil(Bits/8), the length of an ID in bytes
	SuccListSize int // number of successors tracked per node
}

// NewSpace validates and constructs a Space for an m-bit ring.
func NewSpace(bits, succListSize int) (Space, error) {
	if bits <= 0 {
		return Space{}, fmt.Errorf("domain: bits must be positive, got %d", bits)
	}
	if succListSize <= 0 {
		return Space{}, fmt.Errorf("domain: successor list size must be positive, got %d", succListSize)
	}
	return Space{
		Bits:         bits,
		ByteLen:      (bits + 7) / 8,
		SuccListSize: succListSize,
	}, nil
}

// ID is a ring identifier: a big-endian byte slice of a Space's ByteLen,
// with any unused high-order bits masked to zero.
type ID []byte

// Zero returns the ring's zero identifier.
func (sp Space) Zero() ID {
	return make(ID, sp.ByteLen)
}

// mask clears the high-order bits of the most significant byte that fall
// outside the configured bit width, so every ID is confined to [0, 2^m).
func (sp Space) mask(b []byte) {
	extraBits := sp.ByteLen*8 - sp.Bits
	if extraBits == 0 || len(b) == 0 {
		return
	}
	b[0] &= 0xFF >> uint(extraBits)
}

// NewIdFromString hashes s with SHA-1 and truncates to the space's byte
// length, producing the deterministic KeyHash contract the core relies on.
func (sp Space) NewIdFromString(s string) ID {
	sum := sha1.Sum([]byte(s))
	id := make(ID, sp.ByteLen)
	copy(id, sum[:sp.ByteLen])
	sp.mask(id)
	return id
}

// IsValidID reports whether id has the correct length for this space and
// does not use any bits outside the configured width.
func (sp Space) IsValidID(id []byte) error {
	if len(id) != sp.ByteLen {
		return fmt.Errorf("domain: id has length %d, want %d", len(id), sp.ByteLen)
	}
	extraBits := sp.ByteLen*8 - sp.Bits
	if extraBits > 0 {
		mask := byte(0xFF << uint(8-extraBits))
		if len(id) > 0 && id[0]&mask != 0 {
			return errors.New("domain: id uses bits outside the configured identifier space")
		}
	}
	return nil
}

// ToHexString renders the ID as a hex string, optionally prefixed with "0x".
func (x ID) ToHexString(prefix bool) string {
	s := hex.EncodeToString(x)
	if prefix {
		return "0x" + s
	}
	return s
}

// String implements fmt.Stringer, returning the unprefixed hex form.
func (x ID) String() string {
	return x.ToHexString(false)
}

// ToBigInt interprets the ID as an unsigned big-endian integer.
func (x ID) ToBigInt() *big.Int {
	return new(big.Int).SetBytes(x)
}

// ToBinaryString renders the ID as a binary string truncated to the
// space's configured bit width.
func (sp Space) ToBinaryString(x ID, withPrefix bool) string {
	bi := x.ToBigInt()
	s := bi.Text(2)
	if len(s) < sp.Bits {
		s = strings.Repeat("0", sp.Bits-len(s)) + s
	} else if len(s) > sp.Bits {
		s = s[len(s)-sp.Bits:]
	}
	if withPrefix {
		return "0b" + s
	}
	return s
}

// FromHexString parses a hex string into an ID, validating that it fits
// the space's byte length exactly (no silent truncation or padding).
func (sp Space) FromHexString(s string) (ID, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("domain: invalid hex id %q: %w", s, err)
	}
	if len(b) != sp.ByteLen {
		return nil, fmt.Errorf("domain: hex id %q decodes to %d bytes, want %d", s, len(b), sp.ByteLen)
	}
	id := ID(b)
	if err := sp.IsValidID(id); err != nil {
		return nil, err
	}
	return id, nil
}

// FromUint64 builds an ID from a native integer, masked to the space.
func (sp Space) FromUint64(x uint64) ID {
	full := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		full[i] = byte(x)
		x >>= 8
	}
	id := make(ID, sp.ByteLen)
	if sp.ByteLen >= 8 {
		copy(id[sp.ByteLen-8:], full)
	} else {
		copy(id, full[8-sp.ByteLen:])
	}
	sp.mask(id)
	return id
}

// AddPow2Mod returns (x + 2^i) mod 2^m, the finger-table start offset.
func (sp Space) AddPow2Mod(x ID, i int) ID {
	sum := new(big.Int).Add(x.ToBigInt(), new(big.Int).Lsh(big.NewInt(1), uint(i)))
	mod := new(big.Int).Lsh(big.NewInt(1), uint(sp.Bits))
	sum.Mod(sum, mod)
	return sp.fromBigInt(sum)
}

func (sp Space) fromBigInt(v *big.Int) ID {
	b := v.Bytes()
	id := make(ID, sp.ByteLen)
	if len(b) > sp.ByteLen {
		b = b[len(b)-sp.ByteLen:]
	}
	copy(id[sp.ByteLen-len(b):], b)
	sp.mask(id)
	return id
}

// Cmp compares two IDs as unsigned big-endian integers.
func (x ID) Cmp(b ID) int {
	n := len(x)
	if len(b) > n {
		n = len(b)
	}
	_ = n
	return x.ToBigInt().Cmp(b.ToBigInt())
}

// Equal reports whether two IDs denote the same ring position.
func (x ID) Equal(b ID) bool {
	return x.Cmp(b) == 0
}

// InRange is the RingRange predicate: it reports whether x lies on the arc
// from low to high travelling clockwise around the ring, where each
// endpoint is included or excluded according to openLow/closedHigh.
//
// Wrap-around (low >= high as plain integers) is handled as the union of
// (low, 2^m) and [0, high) with the same endpoint inclusion rules. An
// empty arc (low == high, both endpoints excluded) never contains
// anything; an arc whose endpoints are equal and both inclusive contains
// every identifier.
func (sp Space) InRange(openLow bool, low ID, x ID, high ID, closedHigh bool) bool {
	if low.Equal(high) {
		if !openLow && closedHigh {
			return true
		}
		return false
	}

	lowCmp := x.Cmp(low)
	highCmp := x.Cmp(high)

	lowOK := lowCmp > 0
	if !openLow {
		lowOK = lowCmp >= 0
	}
	highOK := highCmp < 0
	if closedHigh {
		highOK = highCmp <= 0
	}

	if low.Cmp(high) < 0 {
		// no wrap: arc is the simple interval [low, high]
		return lowOK && highOK
	}
	// wrap: arc is (low, 2^m) ∪ [0, high), i.e. x is "above low" OR "below high"
	return lowOK || highOK
}

// Between is a convenience alias for the common (low, high] inclusion used
// throughout routing and storage ownership checks. It does not depend on
// the space's bit width, only on the relative order of low/x/high, so no
// Space is required.
func (x ID) Between(low, high ID) bool {
	if low.Equal(high) {
		return true
	}
	lowOK := x.Cmp(low) > 0
	highOK := x.Cmp(high) <= 0
	if low.Cmp(high) < 0 {
		return lowOK && highOK
	}
	return lowOK || highOK
}
