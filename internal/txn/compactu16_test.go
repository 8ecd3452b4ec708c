package txn

import (
	"bytes"
	"testing"
)

func TestCompactU16_KnownEncodings(t *testing.T) {
	cases := []struct {
		value uint16
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xff, 0x7f}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{65535, []byte{0xff, 0xff, 0x03}},
	}

	for _, tc := range cases {
		got := appendCompactU16(nil, tc.value)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("encode %d: got %x, want %x", tc.value, got, tc.want)
		}

		decoded, n := decodeCompactU16(got)
		if n != len(tc.want) || decoded != tc.value {
			t.Errorf("decode %x: got (%d, %d), want (%d, %d)",
				got, decoded, n, tc.value, len(tc.want))
		}
	}
}

func TestDecodeCompactU16_Truncated(t *testing.T) {
	if _, n := decodeCompactU16([]byte{0x80}); n != 0 {
		t.Errorf("truncated input: expected 0 consumed, got %d", n)
	}
	if _, n := decodeCompactU16(nil); n != 0 {
		t.Errorf("empty input: expected 0 consumed, got %d", n)
	}
}

func TestDecodeCompactU16_Overflow(t *testing.T) {
	// Three full bytes can encode values past u16.
	if _, n := decodeCompactU16([]byte{0xff, 0xff, 0x7f}); n != 0 {
		t.Errorf("overflow input: expected rejection, got %d consumed", n)
	}
}
