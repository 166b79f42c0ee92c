package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	ChainKindEVM    = "evm"
	ChainKindSolana = "solana"
)

// LoadChains reads the supported chains from a TOML file.
func LoadChains(path string) ([]ChainConfig, error) {
	var f ChainsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for i, c := range f.Chains {
		if c.Chain == "" {
			return nil, fmt.Errorf("chain #%d has no name", i)
		}

		if seen[c.Chain] {
			return nil, fmt.Errorf("duplicated chain %s", c.Chain)
		}
		seen[c.Chain] = true

		switch c.Kind {
		case "":
			f.Chains[i].Kind = ChainKindEVM
		case ChainKindEVM, ChainKindSolana:
		default:
			return nil, fmt.Errorf("chain %s has invalid kind %s", c.Chain, c.Kind)
		}

		if c.Confirmations <= 0 {
			f.Chains[i].Confirmations = 1
		}
	}

	return f.Chains, nil
}
