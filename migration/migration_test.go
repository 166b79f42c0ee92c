package migration

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	up, identifier, err := src.ReadUp(version)
	require.NoError(t, err)
	defer up.Close()
	require.Equal(t, "init", identifier)

	content, err := io.ReadAll(up)
	require.NoError(t, err)
	for _, table := range []string{"users", "artworks", "blockchains", "nfts", "bridge_requests"} {
		require.Contains(t, string(content), "`"+table+"`")
	}

	down, _, err := src.ReadDown(version)
	require.NoError(t, err)
	down.Close()
}

func TestSource_BridgeCustody(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.Next(1)
	require.NoError(t, err)
	require.Equal(t, uint(2), version)

	up, identifier, err := src.ReadUp(version)
	require.NoError(t, err)
	defer up.Close()
	require.Equal(t, "bridge_custody", identifier)

	content, err := io.ReadAll(up)
	require.NoError(t, err)
	for _, column := range []string{"target_address", "active_nft_id", "source_token_id", "source_mint_address"} {
		require.Contains(t, string(content), "`"+column+"`")
	}
	require.Contains(t, string(content), "UNIQUE INDEX `idx_bridge_requests_active_nft_id`")

	_, err = src.Next(version)
	require.ErrorIs(t, err, os.ErrNotExist)
}
