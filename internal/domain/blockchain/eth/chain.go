package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// gasMarginPercent is added on top of the estimated gas limit.
const gasMarginPercent = 20

type EthChain struct {
	blockchain *entity.Blockchain
	client     EthClient
	dispatcher *EthDispatcher
	privateKey *ecdsa.PrivateKey
	from       ethcommon.Address

	// Every transaction of the platform account goes through sendTx, which
	// holds nonceMu from signing to dispatch.
	nonceMu   sync.Mutex
	nextNonce uint64
	hasNonce  bool
}

func NewChain(blockchain *entity.Blockchain, client EthClient, privateKey *ecdsa.PrivateKey) *EthChain {
	return &EthChain{
		blockchain: blockchain,
		client:     client,
		dispatcher: NewEhtDispatcher(client),
		privateKey: privateKey,
		from:       ethcrypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

func (c *EthChain) Name() string {
	return c.blockchain.Name
}

func (c *EthChain) Kind() entity.BlockchainKind {
	return entity.BlockchainKindEVM
}

// PlatformAddress is the account signing every transaction of this chain.
func (c *EthChain) PlatformAddress() string {
	return c.from.Hex()
}

func (c *EthChain) IsValidAddress(address string) bool {
	return ethcommon.IsHexAddress(address)
}

// MintNFT calls mint of the BridgeArt contract, whose name and symbol are
// fixed at deployment.
func (c *EthChain) MintNFT(ctx context.Context, req *types.MintRequest) (*types.MintResult, error) {
	if !ethcommon.IsHexAddress(c.blockchain.NFTAddress) {
		return nil, fmt.Errorf("chain %s has no nft contract", c.Name())
	}

	if !ethcommon.IsHexAddress(req.Owner) {
		return nil, fmt.Errorf("invalid owner address %s", req.Owner)
	}

	data, err := nftABI.Pack("mint", ethcommon.HexToAddress(req.Owner), big.NewInt(req.TokenID), req.URI)
	if err != nil {
		return nil, err
	}

	tx, err := c.sendTx(ctx, ethcommon.HexToAddress(c.blockchain.NFTAddress), data)
	if err != nil {
		return nil, err
	}

	return &types.MintResult{
		TxHash:      tx.Hash().Hex(),
		TokenID:     strconv.FormatInt(req.TokenID, 10),
		MintAddress: ethcommon.HexToAddress(c.blockchain.NFTAddress).Hex(),
	}, nil
}

func (c *EthChain) LockNFT(ctx context.Context, owner, tokenID, mintAddress string) (string, error) {
	if !ethcommon.IsHexAddress(c.blockchain.VaultAddress) {
		return "", fmt.Errorf("chain %s has no bridge vault", c.Name())
	}

	return c.transfer(ctx, owner, c.blockchain.VaultAddress, tokenID, mintAddress)
}

// ReleaseNFT requires the platform to be an approved operator of the vault.
func (c *EthChain) ReleaseNFT(ctx context.Context, owner, tokenID, mintAddress string) (string, error) {
	if !ethcommon.IsHexAddress(c.blockchain.VaultAddress) {
		return "", fmt.Errorf("chain %s has no bridge vault", c.Name())
	}

	return c.transfer(ctx, c.blockchain.VaultAddress, owner, tokenID, mintAddress)
}

func (c *EthChain) transfer(ctx context.Context, from, to, tokenID, mintAddress string) (string, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token id %s", tokenID)
	}

	if !ethcommon.IsHexAddress(from) || !ethcommon.IsHexAddress(to) {
		return "", fmt.Errorf("invalid transfer from %s to %s", from, to)
	}

	contract := mintAddress
	if contract == "" {
		contract = c.blockchain.NFTAddress
	}

	if !ethcommon.IsHexAddress(contract) {
		return "", fmt.Errorf("invalid nft contract %s", contract)
	}

	data, err := nftABI.Pack("transferFrom", ethcommon.HexToAddress(from), ethcommon.HexToAddress(to), id)
	if err != nil {
		return "", err
	}

	tx, err := c.sendTx(ctx, ethcommon.HexToAddress(contract), data)
	if err != nil {
		return "", err
	}

	return tx.Hash().Hex(), nil
}

func (c *EthChain) TxStatus(ctx context.Context, txHash string) (types.TxStatus, error) {
	receipt, err := c.client.TransactionReceipt(ctx, ethcommon.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return types.TxStatusPending, nil
		}

		return "", err
	}

	if receipt.Status == ethtypes.ReceiptStatusFailed {
		return types.TxStatusFailed, nil
	}

	required := uint64(c.blockchain.Confirmations)
	if required == 0 {
		required = 1
	}

	if receipt.BlockNumber == nil {
		return types.TxStatusPending, nil
	}

	current, err := c.client.BlockNumber(ctx)
	if err != nil {
		return "", err
	}

	included := receipt.BlockNumber.Uint64()
	if current < included || current-included+1 < required {
		return types.TxStatusPending, nil
	}

	return types.TxStatusConfirmed, nil
}

func (c *EthChain) sendTx(ctx context.Context, to ethcommon.Address, data []byte) (*ethtypes.Transaction, error) {
	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := c.signTx(ctx, nonce, to, data)
	if err != nil {
		return nil, err
	}

	result := c.dispatcher.Dispatch(ctx, &types.DispatchedTxRequest{
		Chain: c.Name(),
		From:  c.from,
		Tx:    tx,
	})
	if result.Err != types.ErrNil {
		// The node state is unknown, resync the nonce on the next send.
		c.hasNonce = false
		common.PromCounters[common.BlockchainTransactionFailure].WithLabelValues("dispatch").Inc()
		return nil, fmt.Errorf("unable to dispatch: %s", result.Err)
	}

	c.nextNonce = nonce + 1
	c.hasNonce = true

	common.PromCounters[common.BlockchainTransactionTotal].
		WithLabelValues(c.Name(), string(entity.BlockchainKindEVM)).Inc()
	xcontext.Logger(ctx).Infof("Dispatched tx %s on chain %s", tx.Hash().Hex(), c.Name())
	return tx, nil
}

// nonce returns the pending nonce of the node, or the next local one when the
// node has not seen the last dispatched transaction yet. Callers hold nonceMu.
func (c *EthChain) nonce(ctx context.Context) (uint64, error) {
	pending, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return 0, fmt.Errorf("cannot get nonce: %w", err)
	}

	if c.hasNonce && c.nextNonce > pending {
		return c.nextNonce, nil
	}

	return pending, nil
}

func (c *EthChain) signTx(
	ctx context.Context, nonce uint64, to ethcommon.Address, data []byte,
) (*ethtypes.Transaction, error) {
	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{From: c.from, To: &to, Data: data})
	if err != nil {
		return nil, fmt.Errorf("cannot estimate gas: %w", err)
	}
	gas += gas * gasMarginPercent / 100

	chainID := big.NewInt(c.blockchain.ChainID)

	var inner ethtypes.TxData
	if c.blockchain.UseEip1559 {
		tip, err := c.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot suggest gas tip: %w", err)
		}

		header, err := c.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("cannot get latest header: %w", err)
		}

		feeCap := new(big.Int).Set(tip)
		if header.BaseFee != nil {
			feeCap.Add(feeCap, new(big.Int).Mul(header.BaseFee, big.NewInt(2)))
		}

		inner = &ethtypes.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Data:      data,
		}
	} else {
		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot suggest gas price: %w", err)
		}

		inner = &ethtypes.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Data:     data,
		}
	}

	return ethtypes.SignTx(ethtypes.NewTx(inner), ethtypes.LatestSignerForChainID(chainID), c.privateKey)
}
