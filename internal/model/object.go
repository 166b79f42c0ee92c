package model

type AccessToken struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type User struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Name    string `json:"name"`
}

type Artwork struct {
	ID           string `json:"id"`
	CreatedBy    string `json:"created_by"`
	Prompt       string `json:"prompt"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Source       string `json:"source"`
	Style        string `json:"style,omitempty"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Minted       bool   `json:"minted"`
	CreatedAt    string `json:"created_at"`
}

type NFT struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Artist       string         `json:"artist"`
	Description  string         `json:"description,omitempty"`
	ImageURL     string         `json:"image"`
	MetadataURI  string         `json:"metadata_uri,omitempty"`
	Price        float64        `json:"price"`
	Currency     string         `json:"currency"`
	Likes        int64          `json:"likes"`
	Category     string         `json:"category"`
	Chain        string         `json:"chain"`
	TokenID      string         `json:"token_id,omitempty"`
	MintAddress  string         `json:"mint_address,omitempty"`
	OwnerAddress string         `json:"owner_address,omitempty"`
	Status       string         `json:"status"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

type Blockchain struct {
	Name           string `json:"name"`
	ChainID        int64  `json:"chain_id,omitempty"`
	Kind           string `json:"kind"`
	DisplayName    string `json:"display_name"`
	CurrencySymbol string `json:"currency_symbol"`
	ExplorerURL    string `json:"explorer_url,omitempty"`
}

type BridgeRequest struct {
	ID                string `json:"id"`
	NFTID             string `json:"nft_id"`
	NFT               *NFT   `json:"nft,omitempty"`
	OwnerAddress      string `json:"owner_address"`
	TargetAddress     string `json:"target_address"`
	SourceChain       string `json:"source_chain"`
	TargetChain       string `json:"target_chain"`
	Status            string `json:"status"`
	LockTxHash        string `json:"lock_tx_hash,omitempty"`
	MintTxHash        string `json:"mint_tx_hash,omitempty"`
	TargetTokenID     string `json:"target_token_id,omitempty"`
	TargetMintAddress string `json:"target_mint_address,omitempty"`
	FailureReason     string `json:"failure_reason,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// NFTMetadata is the off-chain token metadata pinned to IPFS.
type NFTMetadata struct {
	Name                 string         `json:"name" structs:"name"`
	Symbol               string         `json:"symbol" structs:"symbol"`
	Description          string         `json:"description" structs:"description"`
	Image                string         `json:"image" structs:"image"`
	SellerFeeBasisPoints int            `json:"seller_fee_basis_points" structs:"seller_fee_basis_points"`
	Attributes           []NFTAttribute `json:"attributes" structs:"attributes"`
	Properties           NFTProperties  `json:"properties" structs:"properties"`
}

type NFTAttribute struct {
	TraitType string `json:"trait_type" structs:"trait_type"`
	Value     string `json:"value" structs:"value"`
}

type NFTProperties struct {
	Files    []NFTFile `json:"files" structs:"files"`
	Category string    `json:"category" structs:"category"`
}

type NFTFile struct {
	URI  string `json:"uri" structs:"uri"`
	Type string `json:"type" structs:"type"`
}
