package ports

import "errors"

// Sentinel errors shared by collaborator service contracts.
var (
	// ErrNotFound: the remote service does not know the requested entity.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds: a debit would push the account below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
