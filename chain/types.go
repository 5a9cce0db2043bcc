package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Router method names
const (
	MethodEnrollRemoteRouters = "enrollRemoteRouters"
	MethodRouters             = "routers"
	MethodDomains             = "domains"
)

// TxOverrides pins transaction fields that would otherwise be queried from the node.
// Zero values leave the field to the transactor.
type TxOverrides struct {
	GasPrice *big.Int
	GasLimit uint64
	Nonce    *big.Int
}

// Router ABI JSON for the remote router registry of a cross-chain router contract
const routerABIJSON = `[
	{
		"inputs": [
			{"internalType": "uint32[]", "name": "_domains", "type": "uint32[]"},
			{"internalType": "bytes32[]", "name": "_addresses", "type": "bytes32[]"}
		],
		"name": "enrollRemoteRouters",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint32", "name": "_domain", "type": "uint32"}
		],
		"name": "routers",
		"outputs": [{"internalType": "bytes32", "name": "", "type": "bytes32"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "domains",
		"outputs": [{"internalType": "uint32[]", "name": "", "type": "uint32[]"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// GetRouterABI returns the parsed router ABI
func GetRouterABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		panic("failed to parse router ABI: " + err.Error())
	}
	return parsed
}
