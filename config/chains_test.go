package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeChainsFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "chains.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadChains(t *testing.T) {
	path := writeChainsFile(t, `
[[chains]]
chain = "ethereum"
display_name = "Ethereum"
chain_id = 11155111
rpcs = ["https://rpc.sepolia.org"]
nft_address = "0x0000000000000000000000000000000000000001"

[[chains]]
chain = "solana"
kind = "solana"
rpcs = ["https://api.devnet.solana.com"]
confirmations = 32
`)

	chains, err := LoadChains(path)
	require.NoError(t, err)
	require.Len(t, chains, 2)
	require.Equal(t, ChainKindEVM, chains[0].Kind)
	require.Equal(t, 1, chains[0].Confirmations)
	require.Equal(t, int64(11155111), chains[0].ChainID)
	require.Equal(t, ChainKindSolana, chains[1].Kind)
	require.Equal(t, 32, chains[1].Confirmations)
}

func TestLoadChains_Invalid(t *testing.T) {
	_, err := LoadChains(writeChainsFile(t, `
[[chains]]
chain = "ethereum"

[[chains]]
chain = "ethereum"
`))
	require.ErrorContains(t, err, "duplicated chain")

	_, err = LoadChains(writeChainsFile(t, `
[[chains]]
chain = "bitcoin"
kind = "utxo"
`))
	require.ErrorContains(t, err, "invalid kind")
}
