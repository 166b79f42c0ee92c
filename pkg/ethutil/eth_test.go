package ethutil

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyFromSecret(t *testing.T) {
	a, err := PrivateKeyFromSecret("platform-secret")
	require.NoError(t, err)
	b, err := PrivateKeyFromSecret("platform-secret")
	require.NoError(t, err)
	require.Equal(t, ethcrypto.FromECDSA(a), ethcrypto.FromECDSA(b))

	c, err := PrivateKeyFromSecret("other-secret")
	require.NoError(t, err)
	require.NotEqual(t, ethcrypto.FromECDSA(a), ethcrypto.FromECDSA(c))

	_, err = PrivateKeyFromSecret("")
	require.Error(t, err)
}

func TestAddressFromSecret(t *testing.T) {
	key, err := PrivateKeyFromSecret("platform-secret")
	require.NoError(t, err)

	addr, err := AddressFromSecret("platform-secret")
	require.NoError(t, err)
	require.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), addr)
}
