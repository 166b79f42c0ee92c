package types

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
)

// MintResult describes a dispatched mint. TokenID and MintAddress identify
// the token on its chain: contract address and token id for EVM, mint account
// for Solana where both are the same.
type MintResult struct {
	TxHash      string
	TokenID     string
	MintAddress string
}

// MintRequest describes a token to mint. Name, Symbol and
// SellerFeeBasisPoints are written on chain where the chain keeps metadata
// next to the token, the rest lives behind URI.
type MintRequest struct {
	Owner                string
	TokenID              int64
	URI                  string
	Name                 string
	Symbol               string
	SellerFeeBasisPoints uint16
}
