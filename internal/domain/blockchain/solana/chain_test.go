package solana

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/mocks"
	"github.com/bridgeart/backend/pkg/testutil"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestChain(t *testing.T) (*SolanaChain, *mocks.SolanaRPCClient) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	client := &mocks.SolanaRPCClient{}
	return NewChain(testutil.ChainSolana, client, key), client
}

func latestBlockhash() *rpc.GetLatestBlockhashResult {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: solana.Hash{1, 2, 3}},
	}
}

func mintRequest(owner string) *types.MintRequest {
	return &types.MintRequest{
		Owner:                owner,
		TokenID:              10,
		URI:                  "ipfs://QmMetadataHash",
		Name:                 "Cosmic Dreams",
		Symbol:               "BRIDGE",
		SellerFeeBasisPoints: 500,
	}
}

func instructionOf(tx *solana.Transaction, program solana.PublicKey) *solana.CompiledInstruction {
	for i := range tx.Message.Instructions {
		inst := &tx.Message.Instructions[i]
		if tx.Message.AccountKeys[inst.ProgramIDIndex].Equals(program) {
			return inst
		}
	}
	return nil
}

func TestSolanaChain_MintNFT(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)
	owner := solana.NewWallet().PublicKey()

	var sent *solana.Transaction
	client.On("GetMinimumBalanceForRentExemption", mock.Anything, uint64(mintAccountSize), mock.Anything).
		Return(uint64(1_461_600), nil)
	client.On("GetLatestBlockhash", mock.Anything, mock.Anything).Return(latestBlockhash(), nil)
	client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*solana.Transaction)
	}).Return(solana.Signature{9}, nil)

	result, err := chain.MintNFT(ctx, mintRequest(owner.String()))
	require.NoError(t, err)
	require.Equal(t, solana.Signature{9}.String(), result.TxHash)
	require.Equal(t, "10", result.TokenID)

	mint, err := solana.PublicKeyFromBase58(result.MintAddress)
	require.NoError(t, err)

	require.NotNil(t, sent)
	require.Len(t, sent.Message.Instructions, 5)
	// Payer and the new mint account both sign.
	require.Len(t, sent.Signatures, 2)

	signers := sent.Message.AccountKeys[:sent.Message.Header.NumRequiredSignatures]
	require.ElementsMatch(t, []solana.PublicKey{chain.payer, mint}, []solana.PublicKey(signers))

	// The token goes to the owner's account, not the platform's.
	ownerATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	platformATA, _, err := solana.FindAssociatedTokenAddress(chain.payer, mint)
	require.NoError(t, err)
	require.Contains(t, sent.Message.AccountKeys, ownerATA)
	require.NotContains(t, sent.Message.AccountKeys, platformATA)

	metadataAccount, err := FindMetadataAddress(mint)
	require.NoError(t, err)
	require.Contains(t, sent.Message.AccountKeys, metadataAccount)

	createMetadata := instructionOf(sent, TokenMetadataProgramID)
	require.NotNil(t, createMetadata)
	require.Equal(t, createMetadataAccountV3, createMetadata.Data[0])
	require.True(t, bytes.Contains(createMetadata.Data, []byte("ipfs://QmMetadataHash")))
	require.True(t, bytes.Contains(createMetadata.Data, []byte("Cosmic Dreams")))
}

func TestSolanaChain_MintNFT_InvalidOwner(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	_, err := chain.MintNFT(ctx, mintRequest(testutil.User1.Address))
	require.Error(t, err)
	client.AssertNotCalled(t, "SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything)
}

func TestSolanaChain_MintNFT_SendFailed(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	client.On("GetMinimumBalanceForRentExemption", mock.Anything, mock.Anything, mock.Anything).
		Return(uint64(1), nil)
	client.On("GetLatestBlockhash", mock.Anything, mock.Anything).Return(latestBlockhash(), nil)
	client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("insufficient funds"))

	_, err := chain.MintNFT(ctx, mintRequest(solana.NewWallet().PublicKey().String()))
	require.Error(t, err)
}

func TestSolanaChain_LockNFT(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	tests := []struct {
		name             string
		accountErr       error
		wantInstructions int
	}{
		{name: "vault account exists", wantInstructions: 1},
		{name: "create vault account", accountErr: rpc.ErrNotFound, wantInstructions: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			chain, client := newTestChain(t)

			var info *rpc.GetAccountInfoResult
			if tt.accountErr == nil {
				info = &rpc.GetAccountInfoResult{Value: &rpc.Account{}}
			}

			var sent *solana.Transaction
			client.On("GetAccountInfo", mock.Anything, mock.Anything).Return(info, tt.accountErr)
			client.On("GetLatestBlockhash", mock.Anything, mock.Anything).Return(latestBlockhash(), nil)
			client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				sent = args.Get(1).(*solana.Transaction)
			}).Return(solana.Signature{7}, nil)

			owner := solana.NewWallet().PublicKey()
			hash, err := chain.LockNFT(ctx, owner.String(), "10", mint.String())
			require.NoError(t, err)
			require.Equal(t, solana.Signature{7}.String(), hash)
			require.Len(t, sent.Message.Instructions, tt.wantInstructions)

			source, _, err := solana.FindAssociatedTokenAddress(owner, mint)
			require.NoError(t, err)
			require.Contains(t, sent.Message.AccountKeys, source)
		})
	}
}

func TestSolanaChain_LockNFT_InvalidMint(t *testing.T) {
	ctx := testutil.MockContext()
	chain, _ := newTestChain(t)

	_, err := chain.LockNFT(ctx, solana.NewWallet().PublicKey().String(), "10", "not-base58!")
	require.Error(t, err)
}

func TestSolanaChain_ReleaseNFT(t *testing.T) {
	ctx := testutil.MockContext()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	blockchain := *testutil.ChainSolana
	blockchain.VaultAddress = ""
	client := &mocks.SolanaRPCClient{}
	chain := NewChain(&blockchain, client, key)

	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	var sent *solana.Transaction
	client.On("GetAccountInfo", mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound)
	client.On("GetLatestBlockhash", mock.Anything, mock.Anything).Return(latestBlockhash(), nil)
	client.On("SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*solana.Transaction)
	}).Return(solana.Signature{5}, nil)

	hash, err := chain.ReleaseNFT(ctx, owner.String(), "10", mint.String())
	require.NoError(t, err)
	require.Equal(t, solana.Signature{5}.String(), hash)

	vaultATA, _, err := solana.FindAssociatedTokenAddress(chain.payer, mint)
	require.NoError(t, err)
	ownerATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	require.Contains(t, sent.Message.AccountKeys, vaultATA)
	require.Contains(t, sent.Message.AccountKeys, ownerATA)
}

func TestSolanaChain_ReleaseNFT_ForeignVault(t *testing.T) {
	ctx := testutil.MockContext()
	chain, client := newTestChain(t)

	_, err := chain.ReleaseNFT(ctx, solana.NewWallet().PublicKey().String(), "10",
		solana.NewWallet().PublicKey().String())
	require.Error(t, err)
	client.AssertNotCalled(t, "SendTransactionWithOpts", mock.Anything, mock.Anything, mock.Anything)
}

func TestSolanaChain_IsValidAddress(t *testing.T) {
	chain, _ := newTestChain(t)

	require.True(t, chain.IsValidAddress(solana.NewWallet().PublicKey().String()))
	require.False(t, chain.IsValidAddress(testutil.User1.Address))
}

func TestSolanaChain_TxStatus(t *testing.T) {
	tests := []struct {
		name   string
		status *rpc.SignatureStatusesResult
		want   types.TxStatus
	}{
		{name: "unknown", status: nil, want: types.TxStatusPending},
		{
			name:   "processed",
			status: &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
			want:   types.TxStatusPending,
		},
		{
			name:   "confirmed",
			status: &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
			want:   types.TxStatusConfirmed,
		},
		{
			name:   "finalized",
			status: &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusFinalized},
			want:   types.TxStatusConfirmed,
		},
		{
			name: "failed",
			status: &rpc.SignatureStatusesResult{
				ConfirmationStatus: rpc.ConfirmationStatusFinalized,
				Err:                map[string]any{"InstructionError": []any{0, "Custom"}},
			},
			want: types.TxStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			chain, client := newTestChain(t)

			client.On("GetSignatureStatuses", mock.Anything, true, mock.Anything).Return(
				&rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{tt.status}}, nil)

			got, err := chain.TxStatus(ctx, solana.Signature{1}.String())
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSolanaChain_TxStatus_InvalidSignature(t *testing.T) {
	ctx := testutil.MockContext()
	chain, _ := newTestChain(t)

	_, err := chain.TxStatus(ctx, "0xabc")
	require.Error(t, err)
}
