package eth

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	RpcTimeOut       = time.Second * 5
	MaxHeightDivider = 5
)

// A wrapper around eth.client so that we can mock in chain tests.
type EthClient interface {
	Start(ctx context.Context)

	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	BalanceAt(ctx context.Context, from common.Address, block *big.Int) (*big.Int, error)
}

// Default implementation of ETH client. Since eth RPC often unstable, this
// client maintains a list of RPCs and only uses the ones close to the median
// block height.
type defaultEthClient struct {
	chain string

	clients []*ethclient.Client
	rpcs    []string

	mutex sync.RWMutex

	blockchainRepo repository.BlockChainRepository
}

func NewEthClients(
	blockchain *entity.Blockchain,
	blockchainRepo repository.BlockChainRepository,
) *defaultEthClient {
	return &defaultEthClient{
		chain:          blockchain.Name,
		blockchainRepo: blockchainRepo,
	}
}

func (c *defaultEthClient) Start(ctx context.Context) {
	go c.loopCheck(ctx)
}

func (c *defaultEthClient) loopCheck(ctx context.Context) {
	frequency := xcontext.Configs(ctx).Blockchain.RefreshConnectionFrequency
	if frequency <= 0 {
		frequency = time.Minute
	}

	ticker := time.NewTicker(frequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.closeAll()
			return
		case <-ticker.C:
			c.updateRpcs(ctx)
		}
	}
}

func (c *defaultEthClient) updateRpcs(ctx context.Context) {
	rpcs := []string{}
	connections, err := c.blockchainRepo.GetBlockchainConnectionsByChain(ctx, c.chain)
	if err != nil || len(connections) == 0 {
		xcontext.Logger(ctx).Errorf("Cannot get any connections of chain %s: %v", c.chain, err)
	} else {
		for _, conn := range connections {
			if conn.Type == entity.BlockchainConnectionRPC {
				rpcs = append(rpcs, conn.URL)
			}
		}
	}

	rpcs, clients := c.getRpcsHealthiness(ctx, rpcs)

	c.mutex.Lock()
	oldClients := c.clients
	c.rpcs, c.clients = rpcs, clients
	c.mutex.Unlock()

	for _, client := range oldClients {
		client.Close()
	}
}

func (c *defaultEthClient) closeAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, client := range c.clients {
		client.Close()
	}
	c.clients, c.rpcs = nil, nil
}

func (c *defaultEthClient) getRpcsHealthiness(ctx context.Context, allRpcs []string) ([]string, []*ethclient.Client) {
	type healthyNode struct {
		client *ethclient.Client
		rpc    string
		height uint64
	}

	nodes := make([]*healthyNode, 0)
	for _, rpc := range allRpcs {
		client, err := ethclient.DialContext(ctx, rpc)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dial rpc %s: %v", rpc, err)
			continue
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, RpcTimeOut)
		height, err := client.BlockNumber(timeoutCtx)
		cancel()
		if err != nil {
			xcontext.Logger(ctx).Warnf("Rpc %s of chain %s is unhealthy: %v", rpc, c.chain, err)
			client.Close()
			continue
		}

		nodes = append(nodes, &healthyNode{client: client, rpc: rpc, height: height})
	}

	rpcs := make([]string, 0)
	clients := make([]*ethclient.Client, 0)
	if len(nodes) == 0 {
		return rpcs, clients
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].height > nodes[j].height
	})

	// Only select nodes within a certain height from the median.
	median := nodes[len(nodes)/2].height
	for _, node := range nodes {
		if absDiff(node.height, median) < MaxHeightDivider {
			rpcs = append(rpcs, node.rpc)
			clients = append(clients, node.client)
		} else {
			node.client.Close()
		}
	}

	xcontext.Logger(ctx).Infof("Healthy rpcs for chain %s: %v", c.chain, rpcs)
	return rpcs, clients
}

func (c *defaultEthClient) getHealthyClient(ctx context.Context) (*ethclient.Client, string) {
	c.mutex.RLock()
	empty := len(c.clients) == 0
	c.mutex.RUnlock()

	if empty {
		c.updateRpcs(ctx)
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if len(c.clients) == 0 {
		return nil, ""
	}

	i := rand.Intn(len(c.clients))
	return c.clients[i], c.rpcs[i]
}

func (c *defaultEthClient) execute(
	ctx context.Context, f func(client *ethclient.Client, rpc string) (any, error),
) (any, error) {
	client, rpc := c.getHealthyClient(ctx)
	if client == nil {
		return nil, fmt.Errorf("no healthy RPC for chain %s", c.chain)
	}

	return f(client, rpc)
}

func (c *defaultEthClient) BlockNumber(ctx context.Context) (uint64, error) {
	num, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.BlockNumber(ctx)
	})
	if err != nil {
		return 0, err
	}

	return num.(uint64), nil
}

func (c *defaultEthClient) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	header, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.HeaderByNumber(ctx, number)
	})
	if err != nil {
		return nil, err
	}

	return header.(*ethtypes.Header), nil
}

func (c *defaultEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	receipt, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.TransactionReceipt(ctx, txHash)
	})
	if err != nil {
		return nil, err
	}

	return receipt.(*ethtypes.Receipt), nil
}

func (c *defaultEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	gas, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, err
	}

	return gas.(*big.Int), nil
}

func (c *defaultEthClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	tip, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.SuggestGasTipCap(ctx)
	})
	if err != nil {
		return nil, err
	}

	return tip.(*big.Int), nil
}

func (c *defaultEthClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.EstimateGas(ctx, msg)
	})
	if err != nil {
		return 0, err
	}

	return gas.(uint64), nil
}

func (c *defaultEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return client.PendingNonceAt(ctx, account)
	})
	if err != nil {
		return 0, err
	}

	return nonce.(uint64), nil
}

func (c *defaultEthClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	_, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		return nil, client.SendTransaction(ctx, tx)
	})

	return err
}

func (c *defaultEthClient) BalanceAt(ctx context.Context, from common.Address, block *big.Int) (*big.Int, error) {
	balance, err := c.execute(ctx, func(client *ethclient.Client, rpc string) (any, error) {
		balance, err := client.BalanceAt(ctx, from, block)
		if err == nil && balance != nil && balance.Sign() == 0 {
			xcontext.Logger(ctx).Warnf("Balance of %s is 0 using URL %s", from, rpc)
		}

		return balance, err
	})
	if err != nil {
		return nil, err
	}

	return balance.(*big.Int), nil
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
