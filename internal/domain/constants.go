package domain

const (
	// DefaultCurrency is the wallet currency assigned at registration.
	DefaultCurrency = "NGN"

	TxTypeFund     = "FUND"
	TxTypeWithdraw = "WITHDRAW"
	TxTypeTransfer = "TRANSFER"

	RoleUser  = "user"
	RoleAdmin = "admin"
)
