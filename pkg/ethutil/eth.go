package ethutil

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// PrivateKeyFromSecret derives the platform account of EVM chains from the
// configured secret. The same secret always gives the same account.
func PrivateKeyFromSecret(secret string) (*ecdsa.PrivateKey, error) {
	if secret == "" {
		return nil, errors.New("empty secret")
	}

	seed := sha256.Sum256([]byte(secret))
	return ethcrypto.ToECDSA(seed[:])
}

func AddressFromSecret(secret string) (common.Address, error) {
	privateKey, err := PrivateKeyFromSecret(secret)
	if err != nil {
		return common.Address{}, err
	}

	return ethcrypto.PubkeyToAddress(privateKey.PublicKey), nil
}
