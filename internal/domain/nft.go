package domain

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain/blockchain"
	"github.com/bridgeart/backend/internal/domain/blockchain/types"
	"github.com/bridgeart/backend/internal/domain/search"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/api/pinata"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// ChainProvider gives access to the running chains.
type ChainProvider interface {
	Chain(name string) (blockchain.Chain, bool)
	Chains() []string
}

type NFTDomain interface {
	Mint(context.Context, *model.MintRequest) (*model.MintResponse, error)
	GetList(context.Context, *model.GetListNFTRequest) (*model.GetListNFTResponse, error)
	Get(context.Context, *model.GetNFTRequest) (*model.GetNFTResponse, error)
	Search(context.Context, *model.SearchNFTRequest) (*model.SearchNFTResponse, error)
	Like(context.Context, *model.LikeNFTRequest) (*model.LikeNFTResponse, error)
	GetListCategory(context.Context, *model.GetListCategoryRequest) (*model.GetListCategoryResponse, error)
	GetMyNFTs(context.Context, *model.GetMyNFTsRequest) (*model.GetMyNFTsResponse, error)

	Seed(context.Context) error
	BuildIndex(context.Context) error
}

type nftDomain struct {
	nftRepo        repository.NftRepository
	artworkRepo    repository.ArtworkRepository
	userRepo       repository.UserRepository
	blockchainRepo repository.BlockChainRepository
	chains         ChainProvider
	pinataEndpoint pinata.IEndpoint
	searchIndex    search.Index
}

func NewNFTDomain(
	nftRepo repository.NftRepository,
	artworkRepo repository.ArtworkRepository,
	userRepo repository.UserRepository,
	blockchainRepo repository.BlockChainRepository,
	chains ChainProvider,
	pinataEndpoint pinata.IEndpoint,
	searchIndex search.Index,
) *nftDomain {
	return &nftDomain{
		nftRepo:        nftRepo,
		artworkRepo:    artworkRepo,
		userRepo:       userRepo,
		blockchainRepo: blockchainRepo,
		chains:         chains,
		pinataEndpoint: pinataEndpoint,
		searchIndex:    searchIndex,
	}
}

func (d *nftDomain) Mint(ctx context.Context, req *model.MintRequest) (*model.MintResponse, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	prompt := strings.TrimSpace(req.Prompt)
	if imageURL == "" || prompt == "" {
		return nil, errorx.New(errorx.BadRequest, "Image URL and prompt are required")
	}

	chainName := req.Chain
	if chainName == "" {
		chainName = xcontext.Configs(ctx).Blockchain.DefaultChain
	}

	chain, ok := d.chains.Chain(chainName)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported chain %s", chainName)
	}

	category := req.Category
	if category == "" {
		category = common.DefaultNFTCategory
	}

	if category == common.AllCategory || !slices.Contains(common.Categories, category) {
		return nil, errorx.New(errorx.BadRequest, "Invalid category")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if req.ArtworkID != "" {
		artwork, err := d.artworkRepo.GetByID(ctx, req.ArtworkID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found artwork")
			}

			xcontext.Logger(ctx).Errorf("Cannot get artwork: %v", err)
			return nil, errorx.Unknown
		}

		if artwork.CreatedBy != userID {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		if artwork.Minted {
			return nil, errorx.New(errorx.AlreadyExists, "Artwork is already minted")
		}
	}

	owner := strings.TrimSpace(req.OwnerAddress)
	if owner == "" {
		owner = xcontext.RequestUserAddress(ctx)
	}
	if owner == "" {
		owner = user.Address
	}

	if !chain.IsValidAddress(owner) {
		return nil, errorx.New(errorx.BadRequest, "Invalid owner address for %s", chainName)
	}

	image, err := loadImage(ctx, imageURL)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot load image %s: %v", imageURL, err)
		return nil, errorx.New(errorx.BadRequest, "Cannot load image")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = common.NFTMetadataName
	}

	artist := user.Name
	if artist == "" {
		artist = user.Address
	}

	nftID := xcontext.SnowFlake(ctx).Generate().Int64()
	imageHash, err := d.pinataEndpoint.PinFile(ctx, fmt.Sprintf("bridgeart-%d-image", nftID), bytes.NewReader(image))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pin nft image: %v", err)
		return nil, errorx.New(errorx.MintFailed, "Error minting NFT")
	}
	imageURI := d.pinataEndpoint.URI(imageHash)

	metadata := model.NFTMetadata{
		Name:                 name,
		Symbol:               common.NFTMetadataSymbol,
		Description:          prompt,
		Image:                imageURI,
		SellerFeeBasisPoints: common.NFTSellerFeeBasisPoints,
		Attributes: []model.NFTAttribute{
			{TraitType: "Category", Value: category},
			{TraitType: "Artist", Value: artist},
			{TraitType: "Chain", Value: chainName},
		},
		Properties: model.NFTProperties{
			Files:    []model.NFTFile{{URI: imageURI, Type: http.DetectContentType(image)}},
			Category: common.NFTMetadataImageCategory,
		},
	}

	hash, err := d.pinataEndpoint.PinJSON(ctx, fmt.Sprintf("bridgeart-%d.json", nftID), metadata)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pin nft metadata: %v", err)
		return nil, errorx.New(errorx.MintFailed, "Error minting NFT")
	}
	metadataURI := d.pinataEndpoint.URI(hash)

	result, err := chain.MintNFT(ctx, &types.MintRequest{
		Owner:                owner,
		TokenID:              nftID,
		URI:                  metadataURI,
		Name:                 name,
		Symbol:               common.NFTMetadataSymbol,
		SellerFeeBasisPoints: common.NFTSellerFeeBasisPoints,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint nft on %s: %v", chainName, err)
		return nil, errorx.New(errorx.MintFailed, "Error minting NFT")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	tx := &entity.BlockchainTransaction{
		Base:   entity.Base{ID: uuid.NewString()},
		Chain:  chainName,
		TxHash: result.TxHash,
		Type:   entity.BlockchainTransactionTypeMint,
		NFTID:  nftID,
		Status: entity.BlockchainTransactionStatusTypeInProgress,
	}
	if err := d.blockchainRepo.CreateTransaction(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create blockchain transaction: %v", err)
		return nil, errorx.Unknown
	}

	nft := &entity.NFT{
		SnowFlakeBase: entity.SnowFlakeBase{ID: nftID},
		Name:          name,
		Artist:        artist,
		Description:   strings.TrimSpace(req.Description),
		ImageURL:      imageURL,
		MetadataURI:   metadataURI,
		Currency:      chainCurrency(ctx, d.blockchainRepo, chainName),
		Category:      category,
		Chain:         chainName,
		TokenID:       result.TokenID,
		MintAddress:   result.MintAddress,
		OwnerID:       sql.NullString{Valid: true, String: userID},
		OwnerAddress:  owner,
		TransactionID: sql.NullString{Valid: true, String: tx.ID},
		Status:        entity.NFTStatusMinting,
		Metadata:      structs.Map(metadata),
	}
	if req.ArtworkID != "" {
		nft.ArtworkID = sql.NullString{Valid: true, String: req.ArtworkID}
	}

	if err := d.nftRepo.Create(ctx, nft); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create nft: %v", err)
		return nil, errorx.Unknown
	}

	if req.ArtworkID != "" {
		if err := d.artworkRepo.MarkMinted(ctx, req.ArtworkID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.AlreadyExists, "Artwork is already minted")
			}

			xcontext.Logger(ctx).Errorf("Cannot mark artwork as minted: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.index(ctx, nft)

	return &model.MintResponse{
		Success:     true,
		MintAddress: result.MintAddress,
		TxHash:      result.TxHash,
		NFTID:       strconv.FormatInt(nftID, 10),
		ImageURI:    imageURI,
		ImageURL:    d.pinataEndpoint.GatewayURL(imageHash),
		Metadata:    metadata,
	}, nil
}

func (d *nftDomain) GetList(
	ctx context.Context, req *model.GetListNFTRequest,
) (*model.GetListNFTResponse, error) {
	limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	if !repository.IsValidNFTSort(req.Sort) {
		return nil, errorx.New(errorx.BadRequest, "Invalid sort %s", req.Sort)
	}

	filter := repository.GetListNFTFilter{
		Category: req.Category,
		Q:        strings.TrimSpace(req.Q),
		Sort:     req.Sort,
		Offset:   req.Offset,
		Limit:    limit,
	}

	nfts, err := d.nftRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list nft: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.nftRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count nft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetListNFTResponse{NFTs: model.ConvertNFTs(nfts), Total: total}, nil
}

func (d *nftDomain) Get(ctx context.Context, req *model.GetNFTRequest) (*model.GetNFTResponse, error) {
	id, err := parseNFTID(req.ID)
	if err != nil {
		return nil, err
	}

	nft, err := d.nftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get nft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetNFTResponse{NFT: model.ConvertNFT(nft)}, nil
}

func (d *nftDomain) Search(
	ctx context.Context, req *model.SearchNFTRequest,
) (*model.SearchNFTResponse, error) {
	q := strings.TrimSpace(req.Q)
	if q == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty query")
	}

	limit, err := checkPagination(ctx, 0, req.Limit)
	if err != nil {
		return nil, err
	}

	ids, err := d.searchIndex.SearchNFT(ctx, q, 0, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search nft: %v", err)
		return nil, errorx.Unknown
	}

	if len(ids) == 0 {
		return &model.SearchNFTResponse{NFTs: []model.NFT{}}, nil
	}

	nfts, err := d.nftRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nfts by ids: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SearchNFTResponse{NFTs: model.ConvertNFTs(nfts)}, nil
}

func (d *nftDomain) Like(ctx context.Context, req *model.LikeNFTRequest) (*model.LikeNFTResponse, error) {
	id, err := parseNFTID(req.ID)
	if err != nil {
		return nil, err
	}

	if err := d.nftRepo.IncreaseLikes(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase likes: %v", err)
		return nil, errorx.Unknown
	}

	nft, err := d.nftRepo.GetByID(ctx, id)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LikeNFTResponse{Likes: nft.Likes}, nil
}

func (d *nftDomain) GetListCategory(
	ctx context.Context, req *model.GetListCategoryRequest,
) (*model.GetListCategoryResponse, error) {
	return &model.GetListCategoryResponse{Categories: slices.Clone(common.Categories)}, nil
}

func (d *nftDomain) GetMyNFTs(
	ctx context.Context, req *model.GetMyNFTsRequest,
) (*model.GetMyNFTsResponse, error) {
	limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	nfts, err := d.nftRepo.GetList(ctx, repository.GetListNFTFilter{
		OwnerID: xcontext.RequestUserID(ctx),
		Offset:  req.Offset,
		Limit:   limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get my nfts: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyNFTsResponse{NFTs: model.ConvertNFTs(nfts)}, nil
}

// Seed inserts the sample gallery records which are not in database yet.
func (d *nftDomain) Seed(ctx context.Context) error {
	var missing []*entity.NFT
	for _, sample := range sampleNFTs() {
		_, err := d.nftRepo.GetByID(ctx, sample.ID)
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		missing = append(missing, sample)
	}

	if len(missing) == 0 {
		return nil
	}

	if err := d.nftRepo.BulkInsert(ctx, missing); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Seeded %d nfts", len(missing))
	return nil
}

// BuildIndex indexes every nft of the database.
func (d *nftDomain) BuildIndex(ctx context.Context) error {
	nfts, err := d.nftRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	for i := range nfts {
		if err := d.searchIndex.IndexNFT(ctx, nfts[i].ID, nftSearchData(&nfts[i])); err != nil {
			return err
		}
	}

	xcontext.Logger(ctx).Infof("Indexed %d nfts", len(nfts))
	return nil
}

func (d *nftDomain) index(ctx context.Context, nft *entity.NFT) {
	if err := d.searchIndex.IndexNFT(ctx, nft.ID, nftSearchData(nft)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index nft %d: %v", nft.ID, err)
	}
}

func nftSearchData(nft *entity.NFT) search.NFTData {
	return search.NFTData{
		Name:        nft.Name,
		Artist:      nft.Artist,
		Description: nft.Description,
		Category:    nft.Category,
	}
}

// loadImage returns the bytes behind a data url or a remote image url.
func loadImage(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "data:") {
		return common.DownloadImage(ctx, url)
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("unsupported data url")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, errors.New("data url is not an image")
	}

	return data, nil
}

func chainCurrency(ctx context.Context, repo repository.BlockChainRepository, chain string) string {
	blockchain, err := repo.Get(ctx, chain)
	if err != nil {
		return ""
	}

	return blockchain.CurrencySymbol
}

func sampleNFTs() []*entity.NFT {
	return []*entity.NFT{
		{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 1, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			Name:          "Cosmic Dreams",
			Artist:        "Alice Smith",
			ImageURL:      "https://picsum.photos/400/400?random=1",
			Price:         0.5,
			Currency:      "ETH",
			Likes:         234,
			Category:      "Digital Art",
			Chain:         "ethereum",
			Status:        entity.NFTStatusMinted,
		},
		{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 2, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			Name:          "Neon City",
			Artist:        "Bob Johnson",
			ImageURL:      "https://picsum.photos/400/400?random=2",
			Price:         1.2,
			Currency:      "ETH",
			Likes:         156,
			Category:      "Photography",
			Chain:         "ethereum",
			Status:        entity.NFTStatusMinted,
		},
	}
}
