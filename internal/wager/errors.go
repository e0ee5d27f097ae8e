// Package wager holds the input validation, checked arithmetic and reentrancy
// guard that sit in front of every mutation of a wager session.
package wager

import "errors"

// Kind is a failure reported by this package. Kinds carry no payload and are
// compared by value.
type Kind string

const (
	ErrInvalidSessionID         Kind = "InvalidSessionId"
	ErrSessionIDTooLong         Kind = "SessionIdTooLong"
	ErrInvalidSessionIDFormat   Kind = "InvalidSessionIdFormat"
	ErrInvalidTeamSelection     Kind = "InvalidTeamSelection"
	ErrInvalidBetAmount         Kind = "InvalidBetAmount"
	ErrInvalidPlayer            Kind = "InvalidPlayer"
	ErrTooManyRemainingAccounts Kind = "TooManyRemainingAccounts"
	ErrInvalidKill              Kind = "InvalidKill"
	ErrArithmeticOverflow       Kind = "ArithmeticOverflow"
	ErrArithmeticUnderflow      Kind = "ArithmeticUnderflow"
	ErrArithmeticError          Kind = "ArithmeticError"
	ErrAlreadyProcessing        Kind = "AlreadyProcessing"
)

// Kinds lists every failure kind in code order.
var Kinds = []Kind{
	ErrInvalidSessionID,
	ErrSessionIDTooLong,
	ErrInvalidSessionIDFormat,
	ErrInvalidTeamSelection,
	ErrInvalidBetAmount,
	ErrInvalidPlayer,
	ErrTooManyRemainingAccounts,
	ErrInvalidKill,
	ErrArithmeticOverflow,
	ErrArithmeticUnderflow,
	ErrArithmeticError,
	ErrAlreadyProcessing,
}

// codeBase is the first numeric failure code handed to clients.
const codeBase = 6000

var kindCodes = func() map[Kind]int {
	codes := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		codes[k] = codeBase + i
	}
	return codes
}()

var kindMessages = map[Kind]string{
	ErrInvalidSessionID:         "session id must not be empty",
	ErrSessionIDTooLong:         "session id exceeds 32 bytes",
	ErrInvalidSessionIDFormat:   "session id may only contain letters, digits, '-' and '_'",
	ErrInvalidTeamSelection:     "team must be 0 or 1",
	ErrInvalidBetAmount:         "bet amount out of range",
	ErrInvalidPlayer:            "invalid player address",
	ErrTooManyRemainingAccounts: "too many remaining accounts",
	ErrInvalidKill:              "invalid kill record",
	ErrArithmeticOverflow:       "arithmetic overflow",
	ErrArithmeticUnderflow:      "arithmetic underflow",
	ErrArithmeticError:          "arithmetic error",
	ErrAlreadyProcessing:        "session is already processing an instruction",
}

func (k Kind) Error() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return string(k)
}

// Code returns the stable numeric failure code, or 0 for an unknown kind.
func (k Kind) Code() int {
	return kindCodes[k]
}

// KindOf extracts the failure kind from err, looking through wrapping.
func KindOf(err error) (Kind, bool) {
	var k Kind
	if errors.As(err, &k) {
		return k, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
