package model

type GetListChainRequest struct{}

type GetListChainResponse struct {
	Chains []Blockchain `json:"chains"`
}

type GetBlockchainTransactionRequest struct {
	Chain  string `json:"chain"`
	TxHash string `json:"tx_hash"`
}

type GetBlockchainTransactionResponse struct {
	Chain  string `json:"chain"`
	TxHash string `json:"tx_hash"`
	Type   string `json:"type"`
	NFTID  int64  `json:"nft_id"`
	Status string `json:"status"`
}
