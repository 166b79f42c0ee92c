package model

import (
	"strconv"
	"time"

	"github.com/bridgeart/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:      user.ID,
		Address: user.Address,
		Name:    user.Name,
	}
}

func ConvertArtwork(artwork *entity.Artwork) Artwork {
	if artwork == nil {
		return Artwork{}
	}

	return Artwork{
		ID:           artwork.ID,
		CreatedBy:    artwork.CreatedBy,
		Prompt:       artwork.Prompt,
		Name:         artwork.Name,
		Description:  artwork.Description,
		Source:       string(artwork.Source),
		Style:        artwork.Style,
		ImageURL:     artwork.ImageURL,
		ThumbnailURL: artwork.ThumbnailURL,
		Minted:       artwork.Minted,
		CreatedAt:    artwork.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertNFT(nft *entity.NFT) NFT {
	if nft == nil {
		return NFT{}
	}

	return NFT{
		ID:           strconv.FormatInt(nft.ID, 10),
		Name:         nft.Name,
		Artist:       nft.Artist,
		Description:  nft.Description,
		ImageURL:     nft.ImageURL,
		MetadataURI:  nft.MetadataURI,
		Price:        nft.Price,
		Currency:     nft.Currency,
		Likes:        nft.Likes,
		Category:     nft.Category,
		Chain:        nft.Chain,
		TokenID:      nft.TokenID,
		MintAddress:  nft.MintAddress,
		OwnerAddress: nft.OwnerAddress,
		Status:       string(nft.Status),
		Metadata:     nft.Metadata,
		CreatedAt:    nft.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertNFTs(nfts []entity.NFT) []NFT {
	result := []NFT{}
	for i := range nfts {
		result = append(result, ConvertNFT(&nfts[i]))
	}
	return result
}

func ConvertBlockchain(chain *entity.Blockchain) Blockchain {
	if chain == nil {
		return Blockchain{}
	}

	return Blockchain{
		Name:           chain.Name,
		ChainID:        chain.ChainID,
		Kind:           string(chain.Kind),
		DisplayName:    chain.DisplayName,
		CurrencySymbol: chain.CurrencySymbol,
		ExplorerURL:    chain.ExplorerURL,
	}
}

func ConvertBridgeRequest(req *entity.BridgeRequest) BridgeRequest {
	if req == nil {
		return BridgeRequest{}
	}

	var nft *NFT
	if req.NFT.ID != 0 {
		converted := ConvertNFT(&req.NFT)
		nft = &converted
	}

	return BridgeRequest{
		ID:                req.ID,
		NFTID:             strconv.FormatInt(req.NFTID, 10),
		NFT:               nft,
		OwnerAddress:      req.OwnerAddress,
		TargetAddress:     req.TargetAddress,
		SourceChain:       req.SourceChain,
		TargetChain:       req.TargetChain,
		Status:            string(req.Status),
		LockTxHash:        req.LockTxHash,
		MintTxHash:        req.MintTxHash,
		TargetTokenID:     req.TargetTokenID,
		TargetMintAddress: req.TargetMintAddress,
		FailureReason:     req.FailureReason,
		CreatedAt:         req.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:         req.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBridgeStatusEvent(req *entity.BridgeRequest) BridgeStatusEvent {
	return BridgeStatusEvent{
		BridgeID:      req.ID,
		Status:        string(req.Status),
		LockTxHash:    req.LockTxHash,
		MintTxHash:    req.MintTxHash,
		FailureReason: req.FailureReason,
		UpdatedAt:     req.UpdatedAt.Format(DefaultTimeLayout),
	}
}
