package ledger

import "math/bits"

// safeAdd returns the sum or ErrAmountOverflow when it does not fit in 64
// bits.
func safeAdd(a uint64, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}

	return sum, nil
}

// safeMul returns the product or ErrAmountOverflow when it does not fit in
// 64 bits.
func safeMul(a uint64, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}

	return lo, nil
}

// mulDiv returns floor(a*b/d) using a 128 bit intermediate so the product
// cannot overflow. The caller guarantees d > 0 and b <= d, which keeps the
// quotient within 64 bits.
func mulDiv(a uint64, b uint64, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	quo, _ := bits.Div64(hi, lo, d)

	return quo
}
