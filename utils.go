package routerenroll

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// WordSize is the byte width of an ABI word
	WordSize = 32
)

var hexDigits = regexp.MustCompile(`^[0-9a-fA-F]*$`)

// NormalizePrivateKey returns privateKey with a 0x prefix
func NormalizePrivateKey(privateKey string) string {
	if strings.HasPrefix(privateKey, "0x") {
		return privateKey
	}
	return "0x" + privateKey
}

// PadAddress32 left-pads a 0x-prefixed hex value with zeros to a 32-byte word.
// Values wider than 32 bytes are rejected rather than truncated.
func PadAddress32(address string) (string, error) {
	if !strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X") {
		return "", &InvalidParamError{Message: fmt.Sprintf("address must be 0x-prefixed hex, got: %q", address)}
	}

	digits := address[2:]
	if !hexDigits.MatchString(digits) {
		return "", &InvalidParamError{Message: fmt.Sprintf("address is not valid hex: %q", address)}
	}
	if len(digits) > 2*WordSize {
		return "", fmt.Errorf("%w: %s has %d hex digits", ErrAddressTooLong, address, len(digits))
	}

	return "0x" + strings.Repeat("0", 2*WordSize-len(digits)) + digits, nil
}

// ParseChainID parses a decimal router table key into a domain id
func ParseChainID(key string) (uint32, error) {
	id, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, &InvalidParamError{Message: fmt.Sprintf("chain id must be a decimal uint32, got: %q", key)}
	}
	if id == 0 {
		return 0, &InvalidParamError{Message: "chain id must be positive"}
	}
	return uint32(id), nil
}

// Delay blocks for d or until ctx is done
func Delay(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func toWord(address string) ([WordSize]byte, error) {
	var word [WordSize]byte

	padded, err := PadAddress32(address)
	if err != nil {
		return word, err
	}

	raw, err := hexutil.Decode(padded)
	if err != nil {
		return word, &InvalidParamError{Message: fmt.Sprintf("failed to decode address %s: %v", address, err)}
	}
	copy(word[:], raw)

	return word, nil
}
