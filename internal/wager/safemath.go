package wager

import "math/bits"

// earningsDivisor encodes the pay-to-spawn rate of 0.1 bet per kill or spawn.
const earningsDivisor = 10

func SafeAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func SafeSubtract(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrArithmeticUnderflow
	}
	return diff, nil
}

func SafeMultiply(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmeticOverflow
	}
	return lo, nil
}

// SafeDivide truncates toward zero. Division by zero is reported as
// ErrArithmeticError, never as overflow.
func SafeDivide(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrArithmeticError
	}
	return a / b, nil
}

// SafeEarningsCalculation returns killsAndSpawns * sessionBet / 10.
func SafeEarningsCalculation(killsAndSpawns uint16, sessionBet uint64) (uint64, error) {
	multiplied, err := SafeMultiply(uint64(killsAndSpawns), sessionBet)
	if err != nil {
		return 0, err
	}
	return SafeDivide(multiplied, earningsDivisor)
}
