package models

import "errors"

// Domain failures surfaced verbatim to API callers. Anything not in this
// list is treated as a transient store failure and is the only class of
// error a caller should retry.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrSelfTransfer       = errors.New("cannot transfer to your own wallet")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
