package txn

// appendCompactU16 appends the compact-u16 ("shortvec") encoding of v:
// little-endian base-128 with a continuation bit.
func appendCompactU16(buf []byte, v uint16) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// decodeCompactU16 reads a compact-u16 from the front of buf, returning
// the value and the number of bytes consumed (0 when truncated or
// overlong).
func decodeCompactU16(buf []byte) (uint16, int) {
	var v uint32
	for i := 0; i < 3 && i < len(buf); i++ {
		b := buf[i]
		v |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			if v > 0xffff {
				return 0, 0
			}
			return uint16(v), i + 1
		}
	}
	return 0, 0
}
