package eth

import (
	"bytes"
	"errors"
	"math/big"
	"sort"
	"sync"
	"testing"

	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/mocks"
	"github.com/bridgeart/backend/pkg/testutil"
	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T) (*EthChain, *mocks.EthClient) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	client := &mocks.EthClient{}
	return NewChain(testutil.ChainEthereum, client, key), client
}

func mintRequest(owner string, tokenID int64) *types.MintRequest {
	return &types.MintRequest{Owner: owner, TokenID: tokenID, URI: "ipfs://metadata"}
}

func TestEthChain_MintNFT(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	var sent *ethtypes.Transaction
	client.On("PendingNonceAt", mock.Anything, chain.from).Return(uint64(5), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100_000), nil)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil)
	client.On("BalanceAt", mock.Anything, chain.from, mock.Anything).Return(big.NewInt(1e18), nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*ethtypes.Transaction)
	}).Return(nil)

	result, err := chain.MintNFT(ctx, mintRequest(testutil.User1.Address, 42))
	require.NoError(t, err)
	require.Equal(t, "42", result.TokenID)
	require.Equal(t, ethcommon.HexToAddress(testutil.ChainEthereum.NFTAddress).Hex(), result.MintAddress)

	require.NotNil(t, sent)
	require.Equal(t, sent.Hash().Hex(), result.TxHash)
	require.Equal(t, uint64(5), sent.Nonce())
	require.Equal(t, uint64(120_000), sent.Gas())
	require.Equal(t, ethcommon.HexToAddress(testutil.ChainEthereum.NFTAddress), *sent.To())
	require.True(t, bytes.HasPrefix(sent.Data(), nftABI.Methods["mint"].ID))

	sender, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(big.NewInt(1)), sent)
	require.NoError(t, err)
	require.Equal(t, chain.from, sender)
}

func TestEthChain_MintNFT_InvalidOwner(t *testing.T) {
	ctx := testutil.MockContext()
	chain, _ := newTestChain(t)

	_, err := chain.MintNFT(ctx, mintRequest("not-an-address", 1))
	require.Error(t, err)
}

func TestEthChain_MintNFT_NotEnoughBalance(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	client.On("PendingNonceAt", mock.Anything, chain.from).Return(uint64(0), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100_000), nil)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(1_000_000_000), nil)
	client.On("BalanceAt", mock.Anything, chain.from, mock.Anything).Return(big.NewInt(0), nil)

	_, err := chain.MintNFT(ctx, mintRequest(testutil.User1.Address, 1))
	require.Error(t, err)
	client.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestEthChain_LockNFT_DynamicFee(t *testing.T) {
	ctx := testutil.MockContext()

	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	blockchain := *testutil.ChainPolygon
	blockchain.UseEip1559 = true
	client := &mocks.EthClient{}
	chain := NewChain(&blockchain, client, key)

	var sent *ethtypes.Transaction
	client.On("PendingNonceAt", mock.Anything, chain.from).Return(uint64(1), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(50_000), nil)
	client.On("SuggestGasTipCap", mock.Anything).Return(big.NewInt(2), nil)
	client.On("HeaderByNumber", mock.Anything, mock.Anything).Return(&ethtypes.Header{BaseFee: big.NewInt(10)}, nil)
	client.On("BalanceAt", mock.Anything, chain.from, mock.Anything).Return(big.NewInt(1e18), nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*ethtypes.Transaction)
	}).Return(nil)

	hash, err := chain.LockNFT(ctx, testutil.User1.Address, "7", "")
	require.NoError(t, err)
	require.Equal(t, sent.Hash().Hex(), hash)
	require.Equal(t, uint8(ethtypes.DynamicFeeTxType), sent.Type())
	require.Equal(t, big.NewInt(22), sent.GasFeeCap())
	require.Equal(t, ethcommon.HexToAddress(blockchain.NFTAddress), *sent.To())

	method, err := nftABI.MethodById(sent.Data()[:4])
	require.NoError(t, err)
	require.Equal(t, "transferFrom", method.Name)

	values, err := method.Inputs.Unpack(sent.Data()[4:])
	require.NoError(t, err)
	require.Equal(t, ethcommon.HexToAddress(testutil.User1.Address), values[0])
	require.Equal(t, ethcommon.HexToAddress(blockchain.VaultAddress), values[1])
	require.Equal(t, big.NewInt(7), values[2])
}

func TestEthChain_LockNFT_InvalidTokenID(t *testing.T) {
	ctx := testutil.MockContext()
	chain, _ := newTestChain(t)

	_, err := chain.LockNFT(ctx, testutil.User1.Address, "abc", "")
	require.Error(t, err)
}

func TestEthChain_TxStatus(t *testing.T) {
	tests := []struct {
		name    string
		receipt *ethtypes.Receipt
		err     error
		height  uint64
		want    types.TxStatus
		wantErr bool
	}{
		{
			name: "not found",
			err:  ethereum.NotFound,
			want: types.TxStatusPending,
		},
		{
			name:    "rpc error",
			err:     errors.New("connection refused"),
			wantErr: true,
		},
		{
			name:    "reverted",
			receipt: &ethtypes.Receipt{Status: ethtypes.ReceiptStatusFailed, BlockNumber: big.NewInt(10)},
			want:    types.TxStatusFailed,
		},
		{
			name:    "confirmed",
			receipt: &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(10)},
			height:  10,
			want:    types.TxStatusConfirmed,
		},
		{
			name:    "behind node",
			receipt: &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(10)},
			height:  9,
			want:    types.TxStatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			chain, client := newTestChain(t)

			client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(tt.receipt, tt.err)
			client.On("BlockNumber", mock.Anything).Return(tt.height, nil)

			got, err := chain.TxStatus(ctx, "0xabc")
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEthChain_TxStatus_WaitConfirmations(t *testing.T) {
	ctx := testutil.MockContext()

	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	blockchain := *testutil.ChainEthereum
	blockchain.Confirmations = 3
	client := &mocks.EthClient{}
	chain := NewChain(&blockchain, client, key)

	receipt := &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)}
	client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(receipt, nil)
	client.On("BlockNumber", mock.Anything).Return(uint64(101), nil).Once()
	client.On("BlockNumber", mock.Anything).Return(uint64(102), nil).Once()

	status, err := chain.TxStatus(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, types.TxStatusPending, status)

	status, err = chain.TxStatus(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, types.TxStatusConfirmed, status)
}

func TestEthChain_ReleaseNFT(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	var sent *ethtypes.Transaction
	client.On("PendingNonceAt", mock.Anything, chain.from).Return(uint64(3), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(50_000), nil)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(1), nil)
	client.On("BalanceAt", mock.Anything, chain.from, mock.Anything).Return(big.NewInt(1e18), nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*ethtypes.Transaction)
	}).Return(nil)

	hash, err := chain.ReleaseNFT(ctx, testutil.User1.Address, "9", "")
	require.NoError(t, err)
	require.Equal(t, sent.Hash().Hex(), hash)

	method, err := nftABI.MethodById(sent.Data()[:4])
	require.NoError(t, err)
	require.Equal(t, "transferFrom", method.Name)

	values, err := method.Inputs.Unpack(sent.Data()[4:])
	require.NoError(t, err)
	require.Equal(t, ethcommon.HexToAddress(testutil.ChainEthereum.VaultAddress), values[0])
	require.Equal(t, ethcommon.HexToAddress(testutil.User1.Address), values[1])
	require.Equal(t, big.NewInt(9), values[2])
}

func TestEthChain_ConcurrentSendsUseDistinctNonces(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	var mu sync.Mutex
	nonces := []uint64{}

	// The node lags behind and keeps reporting the same pending nonce.
	client.On("PendingNonceAt", mock.Anything, chain.from).Return(uint64(5), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100_000), nil)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(1), nil)
	client.On("BalanceAt", mock.Anything, chain.from, mock.Anything).Return(big.NewInt(1e18), nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		nonces = append(nonces, args.Get(1).(*ethtypes.Transaction).Nonce())
	}).Return(nil)

	errs := make([]error, 4)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = chain.MintNFT(ctx, mintRequest(testutil.User1.Address, int64(i)))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })
	require.Equal(t, []uint64{5, 6, 7, 8}, nonces)
}

func TestEthChain_NonceResyncAfterFailedDispatch(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	client.On("PendingNonceAt", mock.Anything, chain.from).Return(uint64(5), nil)
	client.On("EstimateGas", mock.Anything, mock.Anything).Return(uint64(100_000), nil)
	client.On("SuggestGasPrice", mock.Anything).Return(big.NewInt(1), nil)
	client.On("BalanceAt", mock.Anything, chain.from, mock.Anything).Return(big.NewInt(1e18), nil)
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	client.On("SendTransaction", mock.Anything, mock.Anything).Return(errors.New("nonce too low")).Once()

	var last *ethtypes.Transaction
	client.On("SendTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		last = args.Get(1).(*ethtypes.Transaction)
	}).Return(nil).Once()

	_, err := chain.MintNFT(ctx, mintRequest(testutil.User1.Address, 1))
	require.NoError(t, err)

	_, err = chain.MintNFT(ctx, mintRequest(testutil.User1.Address, 2))
	require.Error(t, err)

	_, err = chain.MintNFT(ctx, mintRequest(testutil.User1.Address, 3))
	require.NoError(t, err)
	require.Equal(t, uint64(5), last.Nonce())
}
