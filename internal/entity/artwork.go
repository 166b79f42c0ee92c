package entity

import "github.com/bridgeart/backend/pkg/enum"

type ArtworkSource string

var (
	ArtworkSourceAI         = enum.New(ArtworkSource("ai"))
	ArtworkSourceGenerative = enum.New(ArtworkSource("generative"))
	ArtworkSourceUpload     = enum.New(ArtworkSource("upload"))
)

type Artwork struct {
	Base

	CreatedBy     string `gorm:"index"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`

	Prompt       string
	Name         string
	Description  string
	Source       ArtworkSource
	Style        string
	ImageURL     string
	ThumbnailURL string
	Minted       bool
}
