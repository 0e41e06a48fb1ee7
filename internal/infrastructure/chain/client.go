// Package chain submits signed mint transactions to an ERC-721 contract
// through a JSON-RPC provider. The signing key never leaves the process;
// transactions are signed locally and broadcast raw.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/core/domain"
)

// mintABI is the fragment of the contract interface this client calls.
const mintABI = `[{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"tokenURI","type":"string"}],"outputs":[]}]`

const receiptPollInterval = 500 * time.Millisecond

// backend is the subset of the provider API the client depends on.
// *ethclient.Client satisfies it; tests substitute a stub.
type backend interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Config holds the provider endpoint, signing key and contract coordinates.
type Config struct {
	RPCURL          string
	PrivateKey      string
	ContractAddress string
	ChainID         int64
}

// Client holds the one signing identity and submits mint calls with it.
// Callers must serialize submissions themselves (see the queue package):
// the nonce is fetched fresh per call and concurrent submissions would
// collide on it.
type Client struct {
	backend  backend
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	chainID  *big.Int
	abi      abi.ABI
	logger   zerolog.Logger
}

// NewClient dials the provider and loads the signing key.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("%w: contract %s", domain.ErrInvalidAddress, cfg.ContractAddress)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(mintABI))
	if err != nil {
		return nil, fmt.Errorf("parse mint abi: %w", err)
	}

	ec, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial provider: %w", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	logger.Info().Str("account", from.Hex()).Str("contract", cfg.ContractAddress).Msg("chain client ready")

	return &Client{
		backend:  ec,
		key:      key,
		from:     from,
		contract: common.HexToAddress(cfg.ContractAddress),
		chainID:  big.NewInt(cfg.ChainID),
		abi:      parsed,
		logger:   logger,
	}, nil
}

// Mint submits one signed mint transaction and blocks until the provider
// returns a receipt. The steps run strictly in order: estimate, price, nonce,
// balance check, sign, broadcast. A malformed recipient fails before any
// provider call; a balance below gas*price fails before broadcast.
func (c *Client) Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	if !common.IsHexAddress(req.Recipient) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, req.Recipient)
	}

	data, err := c.abi.Pack("mint", common.HexToAddress(req.Recipient), req.MetadataURI)
	if err != nil {
		return nil, &domain.ChainError{Step: "encode call", Err: err}
	}

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.contract,
		Data: data,
	})
	if err != nil {
		return nil, &domain.ChainError{Step: "estimate gas", Err: err}
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, &domain.ChainError{Step: "fetch gas price", Err: err}
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, &domain.ChainError{Step: "fetch nonce", Err: err}
	}

	balance, err := c.backend.BalanceAt(ctx, c.from, nil)
	if err != nil {
		return nil, &domain.ChainError{Step: "fetch balance", Err: err}
	}

	cost := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	if balance.Cmp(cost) < 0 {
		return nil, fmt.Errorf("%w: balance %s, cost %s", domain.ErrInsufficientFunds, balance, cost)
	}

	signed, err := types.SignNewTx(c.key, types.NewEIP155Signer(c.chainID), &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &c.contract,
		Data:     data,
	})
	if err != nil {
		return nil, &domain.ChainError{Step: "sign transaction", Err: err}
	}

	c.logger.Debug().
		Str("tx_hash", signed.Hash().Hex()).
		Uint64("gas", gas).
		Str("gas_price", gasPrice.String()).
		Uint64("nonce", nonce).
		Msg("broadcasting mint transaction")

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, &domain.ChainError{Step: "broadcast", Err: err}
	}

	receipt, err := c.waitReceipt(ctx, signed.Hash())
	if err != nil {
		return nil, err
	}

	return &domain.MintReceipt{
		TxHash:      receipt.TxHash.Hex(),
		Status:      receipt.Status,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

// waitReceipt polls the provider until the receipt is available. There is no
// deadline of its own; only ctx cancellation stops the wait.
func (c *Client) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, &domain.ChainError{Step: "fetch receipt", Err: err}
		}

		select {
		case <-ctx.Done():
			return nil, &domain.ChainError{Step: "fetch receipt", Err: ctx.Err()}
		case <-time.After(receiptPollInterval):
		}
	}
}
