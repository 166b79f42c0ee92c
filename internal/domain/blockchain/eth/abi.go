package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// The subset of the BridgeArt ERC-721 contract used by the service. mint is
// restricted to the platform account, transferFrom requires the platform to
// be an approved operator of the owner, or of the vault when releasing.
const bridgeArtNFTABI = `[
	{
		"type": "function",
		"name": "mint",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "tokenId", "type": "uint256"},
			{"name": "uri", "type": "string"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "transferFrom",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "tokenId", "type": "uint256"}
		],
		"outputs": []
	}
]`

var nftABI = mustParseABI(bridgeArtNFTABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
