package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/kaifufi/router-enroll-go/internal/rpctest"
)

const (
	testKey     = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testChainID = 42161
)

var testRouter = common.HexToAddress("0x5e8a0fCc0D1DF583322943e01F02cB243e5300f6")

func newTestCaller(t *testing.T, srv *rpctest.Server, overrides TxOverrides) *ContractCaller {
	t.Helper()
	cc, err := NewContractCaller(context.Background(), srv.URL, testKey, testChainID, overrides)
	require.NoError(t, err)
	t.Cleanup(cc.Close)
	return cc
}

func word(hexAddr string) [32]byte {
	var out [32]byte
	copy(out[12:], common.HexToAddress(hexAddr).Bytes())
	return out
}

func TestNewContractCaller_InvalidPrivateKey(t *testing.T) {
	srv := rpctest.NewServer(t)

	_, err := NewContractCaller(context.Background(), srv.URL, "0xnot-a-key", testChainID, TxOverrides{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid private key")
	require.Empty(t, srv.Calls())
}

func TestNewContractCaller_KeyWithoutPrefix(t *testing.T) {
	srv := rpctest.NewServer(t)

	withPrefix := newTestCaller(t, srv, TxOverrides{})
	withoutPrefix, err := NewContractCaller(context.Background(), srv.URL, testKey[2:], testChainID, TxOverrides{})
	require.NoError(t, err)
	defer withoutPrefix.Close()

	require.Equal(t, withPrefix.GetSignerAddress(), withoutPrefix.GetSignerAddress())
	require.Equal(t, int64(testChainID), withPrefix.ChainID().Int64())
}

func TestNewContractCaller_ReadOnly(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.AcceptTransactions()

	cc, err := NewContractCaller(context.Background(), srv.URL, "", testChainID, TxOverrides{})
	require.NoError(t, err)
	defer cc.Close()

	require.True(t, cc.ReadOnly())
	require.Equal(t, common.Address{}, cc.GetSignerAddress())

	_, err = cc.EnrollRemoteRouters(context.Background(), testRouter, []uint32{1}, [][32]byte{{0x01}})
	require.ErrorIs(t, err, ErrReadOnly)
	require.Empty(t, srv.Transactions())
}

func TestEnrollRemoteRouters_SendsSignedTransaction(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.AcceptTransactions()

	cc := newTestCaller(t, srv, TxOverrides{
		GasPrice: big.NewInt(1_000_000_000),
		GasLimit: 250_000,
		Nonce:    big.NewInt(7),
	})

	domains := []uint32{137, 8453}
	routers := [][32]byte{
		word("0x00000000000000000000000000000000000000bb"),
		word("0x00000000000000000000000000000000000000cc"),
	}

	tx, err := cc.EnrollRemoteRouters(context.Background(), testRouter, domains, routers)
	require.NoError(t, err)
	require.Equal(t, []string{"eth_sendRawTransaction"}, srv.Calls())
	require.Len(t, srv.Transactions(), 1)
	sent := srv.Transactions()[0]
	require.Equal(t, tx.Hash(), sent.Hash())

	require.Equal(t, testRouter, *sent.To())
	require.Equal(t, uint64(7), sent.Nonce())
	require.Equal(t, uint64(250_000), sent.Gas())
	require.Equal(t, int64(testChainID), sent.ChainId().Int64())

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(testChainID)), sent)
	require.NoError(t, err)
	require.Equal(t, cc.GetSignerAddress(), from)

	method := GetRouterABI().Methods[MethodEnrollRemoteRouters]
	require.Equal(t, method.ID, sent.Data()[:4])

	args, err := method.Inputs.Unpack(sent.Data()[4:])
	require.NoError(t, err)
	require.Equal(t, domains, args[0])
	require.Equal(t, routers, args[1])
}

func TestEnrollRemoteRouters_LengthMismatch(t *testing.T) {
	srv := rpctest.NewServer(t)
	cc := newTestCaller(t, srv, TxOverrides{})

	_, err := cc.EnrollRemoteRouters(context.Background(), testRouter, []uint32{1, 2}, [][32]byte{{}})
	require.ErrorIs(t, err, ErrInvalidArguments)
	require.Empty(t, srv.Calls())
}

func TestEnrollRemoteRouters_NodeRejects(t *testing.T) {
	srv := rpctest.NewServer(t)
	srv.Fail("eth_sendRawTransaction", -32000, "execution reverted: Ownable: caller is not the owner")

	cc := newTestCaller(t, srv, TxOverrides{
		GasPrice: big.NewInt(1),
		GasLimit: 100_000,
		Nonce:    big.NewInt(0),
	})

	tx, err := cc.EnrollRemoteRouters(context.Background(), testRouter, []uint32{137}, [][32]byte{{0x01}})
	require.Error(t, err)
	require.Nil(t, tx)
	require.Contains(t, err.Error(), "caller is not the owner")
}

func TestRemoteRouter(t *testing.T) {
	srv := rpctest.NewServer(t)
	enrolled := word("0x00000000000000000000000000000000000000bb")
	srv.Result("eth_call", hexutil.Encode(enrolled[:]))

	cc := newTestCaller(t, srv, TxOverrides{})

	got, err := cc.RemoteRouter(context.Background(), testRouter, 137)
	require.NoError(t, err)
	require.Equal(t, enrolled, got)
}

func TestDomains(t *testing.T) {
	srv := rpctest.NewServer(t)

	encoded, err := GetRouterABI().Methods[MethodDomains].Outputs.Pack([]uint32{1, 137})
	require.NoError(t, err)
	srv.Result("eth_call", hexutil.Encode(encoded))

	cc := newTestCaller(t, srv, TxOverrides{})

	domains, err := cc.Domains(context.Background(), testRouter)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 137}, domains)
}
