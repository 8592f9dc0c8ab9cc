package engine

import "errors"

// Rejection reasons surfaced to the user. Every failed precondition maps to
// exactly one of these; none of them leaves partial state behind.
var (
	ErrIdentityRequired  = errors.New("enter your name before trading")
	ErrMarketClosed      = errors.New("market is closed")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrSessionLimit      = errors.New("max trades reached")
	ErrPositionOpen      = errors.New("sell previous buy first")
	ErrNoOpenPosition    = errors.New("you must buy first")

	ErrAlreadyFunded = errors.New("fund assistance already used")
	ErrNotEligible   = errors.New("you already have enough funds")

	ErrWithdrawRange = errors.New("withdrawal amount out of range")
)
