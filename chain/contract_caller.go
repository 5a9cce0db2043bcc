package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	// ErrInvalidArguments is returned when router call arguments cannot be encoded
	ErrInvalidArguments = errors.New("invalid contract call arguments")

	// ErrReadOnly is returned when a write is attempted without a private key
	ErrReadOnly = errors.New("contract caller has no signer")
)

// ContractCaller handles router contract interactions on a single chain.
// Writes go through the signer connection, reads through the reader connection.
type ContractCaller struct {
	signer     *ethclient.Client
	reader     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	chainID    *big.Int
	routerABI  abi.ABI
	overrides  TxOverrides
}

// NewContractCaller creates a new ContractCaller instance.
// An empty privateKeyHex gives a read-only caller with no signer connection.
func NewContractCaller(
	ctx context.Context,
	rpcURL string,
	privateKeyHex string,
	chainID int64,
	overrides TxOverrides,
) (*ContractCaller, error) {
	var (
		privateKey *ecdsa.PrivateKey
		signer     *ethclient.Client
		err        error
	)
	if privateKeyHex != "" {
		privateKey, err = crypto.HexToECDSA(strip0x(privateKeyHex))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}

		signer, err = ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect signer to RPC: %w", err)
		}
	}

	reader, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		if signer != nil {
			signer.Close()
		}
		return nil, fmt.Errorf("failed to connect reader to RPC: %w", err)
	}

	return &ContractCaller{
		signer:     signer,
		reader:     reader,
		privateKey: privateKey,
		chainID:    big.NewInt(chainID),
		routerABI:  GetRouterABI(),
		overrides:  overrides,
	}, nil
}

// ReadOnly reports whether the caller was created without a private key
func (cc *ContractCaller) ReadOnly() bool {
	return cc.privateKey == nil
}

// GetSignerAddress returns the address of the signer, or the zero address when read-only
func (cc *ContractCaller) GetSignerAddress() common.Address {
	if cc.privateKey == nil {
		return common.Address{}
	}
	publicKey := cc.privateKey.Public()
	publicKeyECDSA, _ := publicKey.(*ecdsa.PublicKey)
	return crypto.PubkeyToAddress(*publicKeyECDSA)
}

// ChainID returns the chain ID transactions are signed for
func (cc *ContractCaller) ChainID() *big.Int {
	return new(big.Int).Set(cc.chainID)
}

// EnrollRemoteRouters sends enrollRemoteRouters(domains, routers) to the router contract.
// It returns once the node accepted the signed transaction; no receipt is awaited.
func (cc *ContractCaller) EnrollRemoteRouters(ctx context.Context, router common.Address, domains []uint32, routers [][32]byte) (*types.Transaction, error) {
	if cc.privateKey == nil {
		return nil, ErrReadOnly
	}
	if len(domains) != len(routers) {
		return nil, fmt.Errorf("%w: %d domains but %d routers", ErrInvalidArguments, len(domains), len(routers))
	}

	input, err := cc.routerABI.Pack(MethodEnrollRemoteRouters, domains, routers)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %v", ErrInvalidArguments, MethodEnrollRemoteRouters, err)
	}

	opts, err := cc.transactOpts(ctx)
	if err != nil {
		return nil, err
	}

	contract := bind.NewBoundContract(router, cc.routerABI, cc.reader, cc.signer, cc.reader)
	tx, err := contract.RawTransact(opts, input)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", MethodEnrollRemoteRouters, err)
	}

	return tx, nil
}

// RemoteRouter returns the router enrolled for domain, or the zero word if none is
func (cc *ContractCaller) RemoteRouter(ctx context.Context, router common.Address, domain uint32) ([32]byte, error) {
	var enrolled [32]byte

	data, err := cc.routerABI.Pack(MethodRouters, domain)
	if err != nil {
		return enrolled, err
	}

	result, err := cc.reader.CallContract(ctx, ethereum.CallMsg{
		To:   &router,
		Data: data,
	}, nil)
	if err != nil {
		return enrolled, err
	}

	err = cc.routerABI.UnpackIntoInterface(&enrolled, MethodRouters, result)
	if err != nil {
		return enrolled, err
	}

	return enrolled, nil
}

// Domains returns every domain with an enrolled remote router
func (cc *ContractCaller) Domains(ctx context.Context, router common.Address) ([]uint32, error) {
	data, err := cc.routerABI.Pack(MethodDomains)
	if err != nil {
		return nil, err
	}

	result, err := cc.reader.CallContract(ctx, ethereum.CallMsg{
		To:   &router,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	var domains []uint32
	err = cc.routerABI.UnpackIntoInterface(&domains, MethodDomains, result)
	if err != nil {
		return nil, err
	}

	return domains, nil
}

// transactOpts builds keyed transactor options carrying ctx and the configured overrides
func (cc *ContractCaller) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(cc.privateKey, cc.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	if cc.overrides.GasPrice != nil {
		opts.GasPrice = new(big.Int).Set(cc.overrides.GasPrice)
	}
	if cc.overrides.GasLimit > 0 {
		opts.GasLimit = cc.overrides.GasLimit
	}
	if cc.overrides.Nonce != nil {
		opts.Nonce = new(big.Int).Set(cc.overrides.Nonce)
	}

	return opts, nil
}

// Close closes both Ethereum client connections
func (cc *ContractCaller) Close() {
	if cc.signer != nil {
		cc.signer.Close()
	}
	if cc.reader != nil {
		cc.reader.Close()
	}
}

func strip0x(h string) string {
	if strings.HasPrefix(h, "0x") || strings.HasPrefix(h, "0X") {
		return h[2:]
	}
	return h
}
