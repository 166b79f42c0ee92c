package model

type MintRequest struct {
	ImageURL    string `json:"image_url"`
	Prompt      string `json:"prompt"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Chain       string `json:"chain"`
	ArtworkID   string `json:"artwork_id"`
	Category    string `json:"category"`

	// OwnerAddress receives the token. It defaults to the signed in wallet.
	OwnerAddress string `json:"owner_address"`
}

type MintResponse struct {
	Success     bool        `json:"success"`
	MintAddress string      `json:"mint_address"`
	TxHash      string      `json:"tx_hash"`
	NFTID       string      `json:"nft_id"`
	ImageURI    string      `json:"image_uri"`
	ImageURL    string      `json:"image_url"`
	Metadata    NFTMetadata `json:"metadata"`
}

type GetListNFTRequest struct {
	Category string `json:"category"`
	Q        string `json:"q"`
	Sort     string `json:"sort"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetListNFTResponse struct {
	NFTs  []NFT `json:"nfts"`
	Total int64 `json:"total"`
}

type GetNFTRequest struct {
	ID string `json:"id"`
}

type GetNFTResponse struct {
	NFT NFT `json:"nft"`
}

type SearchNFTRequest struct {
	Q     string `json:"q"`
	Limit int    `json:"limit"`
}

type SearchNFTResponse struct {
	NFTs []NFT `json:"nfts"`
}

type LikeNFTRequest struct {
	ID string `json:"id"`
}

type LikeNFTResponse struct {
	Likes int64 `json:"likes"`
}

type GetListCategoryRequest struct{}

type GetListCategoryResponse struct {
	Categories []string `json:"categories"`
}

type GetMyNFTsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyNFTsResponse struct {
	NFTs []NFT `json:"nfts"`
}
