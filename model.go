package routerenroll

// RouterEntry is one deployment of the router contract
type RouterEntry struct {
	ChainID string
	Address string
}

// RouterTable lists router deployments in enrollment order
type RouterTable []RouterEntry

// Lookup returns the address listed for chainID.
// Decimal keys match by value, so "01" finds the entry keyed "1".
func (t RouterTable) Lookup(chainID string) (string, bool) {
	id, idErr := ParseChainID(chainID)
	for _, entry := range t {
		if entry.ChainID == chainID {
			return entry.Address, true
		}
		if idErr != nil {
			continue
		}
		if entryID, err := ParseChainID(entry.ChainID); err == nil && entryID == id {
			return entry.Address, true
		}
	}
	return "", false
}

// EnrollParams holds the index-aligned arguments of enrollRemoteRouters
type EnrollParams struct {
	ChainIDs  []uint32 `json:"chainIds"`
	Addresses []string `json:"addresses"`
}

// FailureKind classifies why a submission failed
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureInvalidArgument
	FailureInsufficientFunds
	FailureReverted
	FailureNetwork
	FailureUnknown
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureInvalidArgument:
		return "invalid_argument"
	case FailureInsufficientFunds:
		return "insufficient_funds"
	case FailureReverted:
		return "reverted"
	case FailureNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// EnrollResult represents the outcome of an enrollment submission
type EnrollResult struct {
	TxHash string
	Err    error
	Kind   FailureKind
}

// OK reports whether the transaction was accepted by the node
func (r *EnrollResult) OK() bool {
	return r != nil && r.Err == nil
}
