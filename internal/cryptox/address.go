// Package cryptox holds the helpers the registry needs for EVM wallet
// addresses: validation, EIP-55 checksum and canonical form.
package cryptox

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/coinleague/internal/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress validates an EVM address and returns its canonical
// lower-case "0x" form. All-lower and all-upper inputs are accepted as is;
// mixed-case input must carry a valid EIP-55 checksum. Errors wrap
// common.ErrInvalidAddress.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidAddress, addr)
	}
	if !ethcommon.IsHexAddress(addr) {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidAddress, addr)
	}

	canon := ethcommon.HexToAddress(addr).Hex()
	body := addr[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && canon[2:] != body {
		return "", fmt.Errorf("%w: %q has a bad checksum", common.ErrInvalidAddress, addr)
	}

	return strings.ToLower(canon), nil
}

// ChecksumAddress returns the EIP-55 mixed-case form of a well-formed
// address. The input case is ignored.
func ChecksumAddress(addr string) string {
	return ethcommon.HexToAddress(addr).Hex()
}
