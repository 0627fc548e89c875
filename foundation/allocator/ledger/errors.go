package ledger

import "errors"

// Set of errors the ledger returns for rejected operations. Callers can test
// with errors.Is to map a rejection to an API response or action status.
var (
	// ErrInvalidTarget is returned when a target account is the null account
	// or is not a properly hex-encoded account id.
	ErrInvalidTarget = errors.New("target account is not valid")

	// ErrTargetIncapable is returned when a target does not declare the
	// issuance target capability during registration.
	ErrTargetIncapable = errors.New("target does not support the issuance target capability")

	// ErrAllocationForDefaultTarget is returned when an allocation is set for
	// the account currently designated as the default target.
	ErrAllocationForDefaultTarget = errors.New("account is the default target")

	// ErrDefaultTargetAllocated is returned when the account proposed as the
	// default target still carries a non-zero allocation.
	ErrDefaultTargetAllocated = errors.New("account carries an allocation")

	// ErrInsufficientAllocation is returned when a rate change would push the
	// combined allocated rates above the issuance per block.
	ErrInsufficientAllocation = errors.New("allocation exceeds the issuance per block")

	// ErrInsufficientUnallocated is returned when an issuance decrease is
	// larger than the unallocated remainder.
	ErrInsufficientUnallocated = errors.New("issuance decrease exceeds the unallocated rate")

	// ErrBlockOutOfRange is returned when a settlement block lies outside
	// [last distribution block, current block].
	ErrBlockOutOfRange = errors.New("block is outside the settleable range")

	// ErrReentrancy is returned when a notification callback re-enters a
	// mutating operation.
	ErrReentrancy = errors.New("reentrant call")

	// ErrAmountOverflow is returned when issuance math overflows 64 bits.
	ErrAmountOverflow = errors.New("amount overflows 64 bits")
)
