package blockchain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/internal/domain/blockchain/eth"
	"github.com/bridgeart/backend/internal/domain/blockchain/solana"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/ethutil"
	"github.com/bridgeart/backend/pkg/xcontext"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/puzpuzpuz/xsync"
)

const defaultReloadFrequency = 30 * time.Second

type BlockchainManager struct {
	blockchainRepo repository.BlockChainRepository
	chains         *xsync.MapOf[string, Chain]
}

func NewBlockchainManager(blockchainRepo repository.BlockChainRepository) *BlockchainManager {
	return &BlockchainManager{
		blockchainRepo: blockchainRepo,
		chains:         xsync.NewMapOf[Chain](),
	}
}

// LoadChains stores the chains of the configuration file in database. The
// running chains are picked up by the next Reload.
func (m *BlockchainManager) LoadChains(ctx context.Context, chains []config.ChainConfig) error {
	for _, cfg := range chains {
		err := m.blockchainRepo.Upsert(ctx, &entity.Blockchain{
			Name:           cfg.Chain,
			ChainID:        cfg.ChainID,
			Kind:           entity.BlockchainKind(cfg.Kind),
			DisplayName:    cfg.DisplayName,
			CurrencySymbol: cfg.CurrencySymbol,
			ExplorerURL:    cfg.ExplorerURL,
			NFTAddress:     cfg.NFTAddress,
			VaultAddress:   cfg.VaultAddress,
			Confirmations:  cfg.Confirmations,
			UseEip1559:     cfg.UseEip1559,
		})
		if err != nil {
			return fmt.Errorf("cannot upsert chain %s: %w", cfg.Chain, err)
		}

		for _, url := range cfg.Rpcs {
			err := m.blockchainRepo.CreateBlockchainConnection(ctx, &entity.BlockchainConnection{
				Chain: cfg.Chain,
				URL:   url,
				Type:  entity.BlockchainConnectionRPC,
			})
			if err != nil {
				return fmt.Errorf("cannot create connection of chain %s: %w", cfg.Chain, err)
			}
		}
	}

	return nil
}

func (m *BlockchainManager) Run(ctx context.Context) {
	frequency := xcontext.Configs(ctx).Blockchain.ReloadFrequency
	if frequency <= 0 {
		frequency = defaultReloadFrequency
	}

	ticker := time.NewTicker(frequency)
	defer ticker.Stop()

	for {
		m.Reload(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Reload starts every chain of database which is not running yet.
func (m *BlockchainManager) Reload(ctx context.Context) {
	allChains, err := m.blockchainRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load all chains: %v", err)
		return
	}

	for i := range allChains {
		if _, ok := m.chains.Load(allChains[i].Name); ok {
			continue
		}

		chain, err := m.newChain(ctx, &allChains[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot support chain %s: %v", allChains[i].Name, err)
			continue
		}

		m.AddChain(chain)
		xcontext.Logger(ctx).Infof("Begin supporting chain %s", allChains[i].Name)
	}
}

func (m *BlockchainManager) AddChain(chain Chain) {
	m.chains.Store(chain.Name(), chain)
}

func (m *BlockchainManager) Chain(name string) (Chain, bool) {
	return m.chains.Load(name)
}

// Chains returns the sorted names of running chains.
func (m *BlockchainManager) Chains() []string {
	names := []string{}
	m.chains.Range(func(name string, _ Chain) bool {
		names = append(names, name)
		return true
	})

	sort.Strings(names)
	return names
}

func (m *BlockchainManager) newChain(ctx context.Context, blockchain *entity.Blockchain) (Chain, error) {
	cfg := xcontext.Configs(ctx).Blockchain

	switch blockchain.Kind {
	case entity.BlockchainKindSolana:
		if cfg.SolanaPrivateKey == "" {
			return nil, fmt.Errorf("no solana private key")
		}

		privateKey, err := solanago.PrivateKeyFromBase58(cfg.SolanaPrivateKey)
		if err != nil {
			return nil, err
		}

		connections, err := m.blockchainRepo.GetBlockchainConnectionsByChain(ctx, blockchain.Name)
		if err != nil {
			return nil, err
		}

		if len(connections) == 0 {
			return nil, fmt.Errorf("no rpc for chain %s", blockchain.Name)
		}

		return solana.NewChain(blockchain, rpc.New(connections[0].URL), privateKey), nil

	default:
		privateKey, err := ethutil.PrivateKeyFromSecret(cfg.SecretKey)
		if err != nil {
			return nil, err
		}

		client := eth.NewEthClients(blockchain, m.blockchainRepo)
		client.Start(ctx)

		return eth.NewChain(blockchain, client, privateKey), nil
	}
}
