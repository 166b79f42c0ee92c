package common

import "time"

const (
	NFTMetadataName          = "BridgeArt NFT"
	NFTMetadataSymbol        = "BRIDGE"
	NFTSellerFeeBasisPoints  = 500
	NFTMetadataImageCategory = "image"

	DefaultNFTCategory = "Digital Art"
	AllCategory        = "All"
)

// Categories is the ordered list shown by the gallery filter.
var Categories = []string{
	AllCategory,
	"Digital Art",
	"Photography",
	"3D Art",
	"Music",
	"Video",
}

const (
	BridgeStatusTTL = 24 * time.Hour
	BridgeLockTTL   = time.Hour
)
