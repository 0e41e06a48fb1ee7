package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress    = errors.New("invalid chain address")
	ErrInsufficientFunds = errors.New("insufficient funds for gas * price")
	ErrDuplicateMint     = errors.New("mint already submitted for this metadata")
)

// MintRequest carries the inputs for a single mint submission. It is built
// per call and discarded once a receipt (or error) comes back.
type MintRequest struct {
	Recipient   string
	MetadataURI string
}

// MintReceipt is the provider's confirmation for a broadcast transaction.
type MintReceipt struct {
	TxHash      string `json:"tx_hash"`
	Status      uint64 `json:"status"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}

// ChainError wraps a provider failure with the submission step that produced
// it. The provider message is surfaced verbatim to the caller.
type ChainError struct {
	Step string
	Err  error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain: %s: %v", e.Step, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}
