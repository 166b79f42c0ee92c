package solana

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// mintAccountSize is the size of an SPL mint account.
const mintAccountSize = 82

// RPCClient is the subset of *rpc.Client used by the chain.
type RPCClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// SolanaChain mints every NFT as a fresh SPL mint with supply one, held by
// the owner's associated token account and described by a Metaplex metadata
// account. Bridge locks need the platform as delegate of the owner's token
// account; the vault is an account of the platform, so releases are signed by
// the platform key.
type SolanaChain struct {
	blockchain *entity.Blockchain
	client     RPCClient
	privateKey solana.PrivateKey
	payer      solana.PublicKey
}

func NewChain(blockchain *entity.Blockchain, client RPCClient, privateKey solana.PrivateKey) *SolanaChain {
	return &SolanaChain{
		blockchain: blockchain,
		client:     client,
		privateKey: privateKey,
		payer:      privateKey.PublicKey(),
	}
}

func (c *SolanaChain) Name() string {
	return c.blockchain.Name
}

func (c *SolanaChain) Kind() entity.BlockchainKind {
	return entity.BlockchainKindSolana
}

func (c *SolanaChain) PlatformAddress() string {
	return c.payer.String()
}

func (c *SolanaChain) IsValidAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

func (c *SolanaChain) MintNFT(ctx context.Context, req *types.MintRequest) (*types.MintResult, error) {
	owner, err := solana.PublicKeyFromBase58(req.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner address %s: %w", req.Owner, err)
	}

	rent, err := c.client.GetMinimumBalanceForRentExemption(ctx, mintAccountSize, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("cannot get rent exemption: %w", err)
	}

	mint := solana.NewWallet()
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint.PublicKey())
	if err != nil {
		return nil, err
	}

	createMetadata, err := NewCreateMetadataInstruction(Metadata{
		Name:                 truncate(req.Name, maxNameLength),
		Symbol:               truncate(req.Symbol, maxSymbolLength),
		URI:                  req.URI,
		SellerFeeBasisPoints: req.SellerFeeBasisPoints,
		Creator:              c.payer,
	}, mint.PublicKey(), c.payer, c.payer)
	if err != nil {
		return nil, err
	}

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(
			rent, mintAccountSize, solana.TokenProgramID, c.payer, mint.PublicKey(),
		).Build(),
		token.NewInitializeMintInstruction(
			0, c.payer, c.payer, mint.PublicKey(), solana.SysVarRentPubkey,
		).Build(),
		createMetadata,
		associatedtokenaccount.NewCreateInstruction(c.payer, owner, mint.PublicKey()).Build(),
		token.NewMintToInstruction(1, mint.PublicKey(), ata, c.payer, nil).Build(),
	}

	sig, err := c.send(ctx, instructions, mint.PrivateKey)
	if err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Infof("Minted token %d (%s) for %s with metadata %s",
		req.TokenID, mint.PublicKey(), owner, req.URI)

	return &types.MintResult{
		TxHash:      sig.String(),
		TokenID:     strconv.FormatInt(req.TokenID, 10),
		MintAddress: mint.PublicKey().String(),
	}, nil
}

func (c *SolanaChain) LockNFT(ctx context.Context, owner, tokenID, mintAddress string) (string, error) {
	from, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return "", fmt.Errorf("invalid owner address %s: %w", owner, err)
	}

	sig, err := c.transfer(ctx, from, c.vault(), mintAddress)
	if err != nil {
		return "", err
	}

	xcontext.Logger(ctx).Infof("Locked token %s of %s into vault %s", tokenID, owner, c.vault())
	return sig, nil
}

func (c *SolanaChain) ReleaseNFT(ctx context.Context, owner, tokenID, mintAddress string) (string, error) {
	to, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return "", fmt.Errorf("invalid owner address %s: %w", owner, err)
	}

	if !c.vault().Equals(c.payer) {
		return "", fmt.Errorf("vault of chain %s is not controlled by the platform", c.Name())
	}

	sig, err := c.transfer(ctx, c.vault(), to, mintAddress)
	if err != nil {
		return "", err
	}

	xcontext.Logger(ctx).Infof("Released token %s from vault to %s", tokenID, owner)
	return sig, nil
}

// transfer moves the single token of mintAddress between the associated
// accounts of from and to, creating the destination account when needed. The
// platform signs as owner or delegate of the source account.
func (c *SolanaChain) transfer(ctx context.Context, from, to solana.PublicKey, mintAddress string) (string, error) {
	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return "", fmt.Errorf("invalid mint address %s: %w", mintAddress, err)
	}

	source, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil {
		return "", err
	}

	destination, _, err := solana.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return "", err
	}

	instructions := []solana.Instruction{}
	exists, err := c.accountExists(ctx, destination)
	if err != nil {
		return "", err
	}

	if !exists {
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(c.payer, to, mint).Build())
	}

	instructions = append(instructions,
		token.NewTransferInstruction(1, source, destination, c.payer, nil).Build())

	sig, err := c.send(ctx, instructions)
	if err != nil {
		return "", err
	}

	return sig.String(), nil
}

// vault defaults to the platform account.
func (c *SolanaChain) vault() solana.PublicKey {
	if vault, err := solana.PublicKeyFromBase58(c.blockchain.VaultAddress); err == nil {
		return vault
	}

	return c.payer
}

func (c *SolanaChain) TxStatus(ctx context.Context, txHash string) (types.TxStatus, error) {
	sig, err := solana.SignatureFromBase58(txHash)
	if err != nil {
		return "", err
	}

	result, err := c.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return "", err
	}

	if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
		return types.TxStatusPending, nil
	}

	status := result.Value[0]
	if status.Err != nil {
		return types.TxStatusFailed, nil
	}

	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return types.TxStatusConfirmed, nil
	default:
		return types.TxStatusPending, nil
	}
}

func (c *SolanaChain) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := c.client.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return info != nil && info.Value != nil, nil
}

func (c *SolanaChain) send(
	ctx context.Context, instructions []solana.Instruction, signers ...solana.PrivateKey,
) (solana.Signature, error) {
	recent, err := c.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash, solana.TransactionPayer(c.payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot create transaction: %w", err)
	}

	keys := append([]solana.PrivateKey{c.privateKey}, signers...)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range keys {
			if keys[i].PublicKey().Equals(key) {
				return &keys[i]
			}
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot sign transaction: %w", err)
	}

	sig, err := c.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		common.PromCounters[common.BlockchainTransactionFailure].WithLabelValues("dispatch").Inc()
		return solana.Signature{}, fmt.Errorf("cannot send transaction: %w", err)
	}

	common.PromCounters[common.BlockchainTransactionTotal].
		WithLabelValues(c.Name(), string(entity.BlockchainKindSolana)).Inc()
	return sig, nil
}

func truncate(s string, max int) string {
	for len(s) > max {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}

	return s
}
