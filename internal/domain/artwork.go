package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/bridgeart/backend/internal/client"
	"github.com/bridgeart/backend/internal/common"
	"github.com/bridgeart/backend/internal/domain/generative"
	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/internal/model"
	"github.com/bridgeart/backend/internal/repository"
	"github.com/bridgeart/backend/pkg/crypto"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/storage"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	artworkPrefix      = "artworks"
	artworkNameMaxRune = 64
)

type ArtworkDomain interface {
	Generate(context.Context, *model.GenerateRequest) (*model.GenerateResponse, error)
	GenerateArt(context.Context, *model.GenerateArtRequest) (*model.GenerateArtResponse, error)
	UploadArtwork(context.Context, *model.UploadArtworkRequest) (*model.UploadArtworkResponse, error)
	GetArtwork(context.Context, *model.GetArtworkRequest) (*model.GetArtworkResponse, error)
	GetMyArtworks(context.Context, *model.GetMyArtworksRequest) (*model.GetMyArtworksResponse, error)
}

type artworkDomain struct {
	artworkRepo    repository.ArtworkRepository
	imageGenerator client.ImageGenerator
	storage        storage.Storage
}

// NewArtworkDomain creates the artwork domain. A nil storage keeps generated
// images at their upstream location.
func NewArtworkDomain(
	artworkRepo repository.ArtworkRepository,
	imageGenerator client.ImageGenerator,
	storage storage.Storage,
) *artworkDomain {
	return &artworkDomain{
		artworkRepo:    artworkRepo,
		imageGenerator: imageGenerator,
		storage:        storage,
	}
}

func (d *artworkDomain) Generate(
	ctx context.Context, req *model.GenerateRequest,
) (*model.GenerateResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errorx.New(errorx.BadRequest, "Prompt is required")
	}

	counter := common.PromCounters[common.ImageGenerationTotal]

	imageURL, err := d.imageGenerator.Generate(ctx, prompt)
	if err != nil {
		counter.WithLabelValues(string(entity.ArtworkSourceAI), "failure").Inc()
		xcontext.Logger(ctx).Errorf("Cannot generate image: %v", err)
		return nil, errorx.New(errorx.GenerateFailed, "Error generating image")
	}

	artwork := &entity.Artwork{
		Base:      entity.Base{ID: uuid.NewString()},
		CreatedBy: xcontext.RequestUserID(ctx),
		Prompt:    prompt,
		Name:      artworkName(prompt),
		Source:    entity.ArtworkSourceAI,
		ImageURL:  imageURL,
	}

	if d.storage != nil {
		data, err := common.DownloadImage(ctx, imageURL)
		if err != nil {
			counter.WithLabelValues(string(entity.ArtworkSourceAI), "failure").Inc()
			xcontext.Logger(ctx).Errorf("Cannot download generated image: %v", err)
			return nil, errorx.New(errorx.GenerateFailed, "Error generating image")
		}

		stored, err := common.StoreImage(ctx, d.storage, artworkPrefix, artwork.ID, data)
		if err != nil {
			counter.WithLabelValues(string(entity.ArtworkSourceAI), "failure").Inc()
			xcontext.Logger(ctx).Errorf("Cannot store generated image: %v", err)
			return nil, errorx.New(errorx.GenerateFailed, "Error generating image")
		}

		artwork.ImageURL = stored.ImageURL
		artwork.ThumbnailURL = stored.ThumbnailURL
	}

	if err := d.artworkRepo.Create(ctx, artwork); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create artwork: %v", err)
		return nil, errorx.Unknown
	}

	counter.WithLabelValues(string(entity.ArtworkSourceAI), "success").Inc()
	return &model.GenerateResponse{
		ImageURL:     artwork.ImageURL,
		ThumbnailURL: artwork.ThumbnailURL,
		ArtworkID:    artwork.ID,
	}, nil
}

func (d *artworkDomain) GenerateArt(
	ctx context.Context, req *model.GenerateArtRequest,
) (*model.GenerateArtResponse, error) {
	// A zero seed asks for a new random canvas.
	seed := req.Seed
	if seed == 0 {
		seed = int64(crypto.RandRange(1, math.MaxInt32))
	}

	opts, err := generative.NewOptions(req.Style, req.Width, req.Height, req.Colors, seed)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid art options: %v", err)
	}

	data, err := generative.EncodePNG(generative.Render(opts))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode generative art: %v", err)
		return nil, errorx.Unknown
	}

	artwork := &entity.Artwork{
		Base:      entity.Base{ID: uuid.NewString()},
		CreatedBy: xcontext.RequestUserID(ctx),
		Name:      "Generative " + opts.Style,
		Source:    entity.ArtworkSourceGenerative,
		Style:     opts.Style,
	}

	// Without storage the image is returned inline, like a canvas export.
	if d.storage != nil {
		stored, err := common.StoreImage(ctx, d.storage, artworkPrefix, artwork.ID+".png", data)
		if err != nil {
			common.PromCounters[common.ImageGenerationTotal].
				WithLabelValues(string(entity.ArtworkSourceGenerative), "failure").Inc()
			xcontext.Logger(ctx).Errorf("Cannot store generative art: %v", err)
			return nil, errorx.Unknown
		}

		artwork.ImageURL = stored.ImageURL
		artwork.ThumbnailURL = stored.ThumbnailURL
	} else {
		artwork.ImageURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	}

	if err := d.artworkRepo.Create(ctx, artwork); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create artwork: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.ImageGenerationTotal].
		WithLabelValues(string(entity.ArtworkSourceGenerative), "success").Inc()
	return &model.GenerateArtResponse{
		ImageURL:     artwork.ImageURL,
		ThumbnailURL: artwork.ThumbnailURL,
		ArtworkID:    artwork.ID,
		Style:        opts.Style,
		Seed:         opts.Seed,
	}, nil
}

func (d *artworkDomain) UploadArtwork(
	ctx context.Context, req *model.UploadArtworkRequest,
) (*model.UploadArtworkResponse, error) {
	if d.storage == nil {
		return nil, errorx.New(errorx.Unavailable, "Upload is not supported")
	}

	stored, err := common.ProcessImage(ctx, d.storage, "image", artworkPrefix)
	if err != nil {
		return nil, err
	}

	httpReq := xcontext.HTTPRequest(ctx)
	artwork := &entity.Artwork{
		Base:         entity.Base{ID: uuid.NewString()},
		CreatedBy:    xcontext.RequestUserID(ctx),
		Name:         strings.TrimSpace(httpReq.FormValue("name")),
		Description:  strings.TrimSpace(httpReq.FormValue("description")),
		Source:       entity.ArtworkSourceUpload,
		ImageURL:     stored.ImageURL,
		ThumbnailURL: stored.ThumbnailURL,
	}

	if err := d.artworkRepo.Create(ctx, artwork); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create artwork: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadArtworkResponse{
		ImageURL:     artwork.ImageURL,
		ThumbnailURL: artwork.ThumbnailURL,
		ArtworkID:    artwork.ID,
	}, nil
}

func (d *artworkDomain) GetArtwork(
	ctx context.Context, req *model.GetArtworkRequest,
) (*model.GetArtworkResponse, error) {
	artwork, err := d.artworkRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found artwork")
		}

		xcontext.Logger(ctx).Errorf("Cannot get artwork: %v", err)
		return nil, errorx.Unknown
	}

	if artwork.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return &model.GetArtworkResponse{Artwork: model.ConvertArtwork(artwork)}, nil
}

func (d *artworkDomain) GetMyArtworks(
	ctx context.Context, req *model.GetMyArtworksRequest,
) (*model.GetMyArtworksResponse, error) {
	limit, err := checkPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	artworks, err := d.artworkRepo.GetByCreator(ctx, xcontext.RequestUserID(ctx), req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get artworks: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Artwork{}
	for i := range artworks {
		result = append(result, model.ConvertArtwork(&artworks[i]))
	}

	return &model.GetMyArtworksResponse{Artworks: result}, nil
}

// artworkName derives a display name from the first words of prompt.
func artworkName(prompt string) string {
	if utf8.RuneCountInString(prompt) <= artworkNameMaxRune {
		return prompt
	}

	runes := []rune(prompt)[:artworkNameMaxRune]
	if i := strings.LastIndex(string(runes), " "); i > 0 {
		return string(runes)[:i] + "..."
	}

	return string(runes) + "..."
}
