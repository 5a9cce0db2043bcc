package routerenroll

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/kaifufi/router-enroll-go/chain"
)

// Client enrolls remote routers on the router contract of a single chain
type Client struct {
	contractCaller *chain.ContractCaller
	chainInfo      Chain
	logger         *zap.Logger
}

// NewClient creates a signing and a reading connection to config.Chain.
// Construction failures are returned as *ConfigurationError.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.RPCURL != "" {
		config.Chain.RPCURL = config.RPCURL
	}

	if err := config.Chain.Validate(); err != nil {
		return nil, err
	}
	privateKey := config.PrivateKey
	if privateKey == "" && !config.ReadOnly {
		return nil, &ConfigurationError{Message: "private key is required"}
	}
	if privateKey != "" {
		privateKey = NormalizePrivateKey(privateKey)
	}

	contractCaller, err := chain.NewContractCaller(
		context.Background(),
		config.Chain.RPCURL,
		privateKey,
		int64(config.Chain.ID),
		chain.TxOverrides{
			GasPrice: config.GasPrice,
			GasLimit: config.GasLimit,
			Nonce:    config.Nonce,
		},
	)
	if err != nil {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("failed to create contract caller for %s", config.Chain.Name),
			Err:     err,
		}
	}

	logger := config.Logger.With(
		zap.String("chain", config.Chain.Name),
		zap.Int64("chain_id", int64(config.Chain.ID)),
	)

	return &Client{
		contractCaller: contractCaller,
		chainInfo:      config.Chain,
		logger:         logger,
	}, nil
}

// Close closes the client and cleans up resources
func (c *Client) Close() {
	if c.contractCaller != nil {
		c.contractCaller.Close()
	}
}

// Chain returns the chain the client is bound to
func (c *Client) Chain() Chain {
	return c.chainInfo
}

// ReadOnly reports whether the client was created without a signer
func (c *Client) ReadOnly() bool {
	return c.contractCaller.ReadOnly()
}

// SignerAddress returns the checksummed address transactions are sent from,
// or an empty string for a read-only client
func (c *Client) SignerAddress() string {
	if c.contractCaller.ReadOnly() {
		return ""
	}
	return c.contractCaller.GetSignerAddress().Hex()
}

// CreateParamsForTx builds enrollRemoteRouters arguments from table, skipping origin.
// Entries keep table order; origin must be present in table.
func (c *Client) CreateParamsForTx(table RouterTable, origin string) (*EnrollParams, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	originID, err := ParseChainID(origin)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if _, ok := table.Lookup(origin); !ok {
		return nil, fmt.Errorf("%w: %q", ErrOriginNotFound, origin)
	}

	params := &EnrollParams{
		ChainIDs:  make([]uint32, 0, len(table)-1),
		Addresses: make([]string, 0, len(table)-1),
	}

	for _, entry := range table {
		c.logger.Debug("router table entry",
			zap.String("table_chain_id", entry.ChainID),
			zap.String("address", entry.Address),
		)
		chainID, err := ParseChainID(entry.ChainID)
		if err != nil {
			return nil, err
		}
		if chainID == originID {
			continue
		}

		padded, err := PadAddress32(entry.Address)
		if err != nil {
			return nil, err
		}

		params.ChainIDs = append(params.ChainIDs, chainID)
		params.Addresses = append(params.Addresses, padded)
	}

	c.logger.Info("built enrollment params", zap.String("origin", origin), zap.Any("params", params))
	return params, nil
}

// SetEnrollRouters submits enrollRemoteRouters(chainIDs, addresses) to contractAddress.
// It never returns an error: failures are logged and reported through the result.
func (c *Client) SetEnrollRouters(ctx context.Context, contractAddress string, chainIDs []uint32, addresses []string) *EnrollResult {
	c.logger.Info("start set enroll routers",
		zap.String("contract", contractAddress),
		zap.Uint32s("remote_chain_ids", chainIDs),
	)

	if !common.IsHexAddress(contractAddress) {
		return c.failed(&InvalidParamError{Message: fmt.Sprintf("invalid contract address: %q", contractAddress)})
	}

	routers := make([][WordSize]byte, len(addresses))
	for i, address := range addresses {
		word, err := toWord(address)
		if err != nil {
			return c.failed(err)
		}
		routers[i] = word
	}

	tx, err := c.contractCaller.EnrollRemoteRouters(ctx, common.HexToAddress(contractAddress), chainIDs, routers)
	if err != nil {
		return c.failed(err)
	}

	txHash := tx.Hash().Hex()
	c.logger.Info("enroll transaction submitted", zap.String("tx_hash", txHash))

	return &EnrollResult{TxHash: txHash}
}

// SetEnroll enrolls every router in table on the router deployed at origin.
// Only parameter construction errors are returned; see SetEnrollRouters.
func (c *Client) SetEnroll(ctx context.Context, table RouterTable, origin string) (*EnrollResult, error) {
	params, err := c.CreateParamsForTx(table, origin)
	if err != nil {
		return nil, err
	}

	contractAddress, _ := table.Lookup(origin)
	return c.SetEnrollRouters(ctx, contractAddress, params.ChainIDs, params.Addresses), nil
}

// RemoteRouter returns the 32-byte router currently enrolled for chainID on contractAddress
func (c *Client) RemoteRouter(ctx context.Context, contractAddress string, chainID uint32) (string, error) {
	if !common.IsHexAddress(contractAddress) {
		return "", &InvalidParamError{Message: fmt.Sprintf("invalid contract address: %q", contractAddress)}
	}

	word, err := c.contractCaller.RemoteRouter(ctx, common.HexToAddress(contractAddress), chainID)
	if err != nil {
		return "", fmt.Errorf("failed to read router for %d: %w", chainID, err)
	}

	return hexutil.Encode(word[:]), nil
}

// EnrolledDomains returns the chain ids with a router enrolled on contractAddress
func (c *Client) EnrolledDomains(ctx context.Context, contractAddress string) ([]uint32, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid contract address: %q", contractAddress)}
	}

	domains, err := c.contractCaller.Domains(ctx, common.HexToAddress(contractAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to read enrolled domains: %w", err)
	}

	return domains, nil
}

func (c *Client) failed(err error) *EnrollResult {
	kind := classifyFailure(err)
	c.logger.Error("enroll transaction failed", zap.Stringer("kind", kind), zap.Error(err))
	return &EnrollResult{Err: err, Kind: kind}
}

func classifyFailure(err error) FailureKind {
	if errors.Is(err, ErrInvalidParam) || errors.Is(err, ErrAddressTooLong) || errors.Is(err, chain.ErrInvalidArguments) {
		return FailureInvalidArgument
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient funds") {
		return FailureInsufficientFunds
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return FailureReverted
	}
	if strings.Contains(msg, "revert") {
		return FailureReverted
	}

	var netErr net.Error
	var httpErr rpc.HTTPError
	if errors.As(err, &netErr) || errors.As(err, &httpErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureNetwork
	}

	return FailureUnknown
}
