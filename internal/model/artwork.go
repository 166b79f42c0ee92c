package model

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ArtworkID    string `json:"artwork_id"`
}

type GenerateArtRequest struct {
	Style  string   `json:"style"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Colors []string `json:"colors"`
	Seed   int64    `json:"seed"`
}

type GenerateArtResponse struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ArtworkID    string `json:"artwork_id"`
	Style        string `json:"style"`
	Seed         int64  `json:"seed"`
}

// UploadArtworkRequest is sent as multipart/form-data with an "image" file and
// optional "name" and "description" fields.
type UploadArtworkRequest struct{}

type UploadArtworkResponse struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ArtworkID    string `json:"artwork_id"`
}

type GetArtworkRequest struct {
	ID string `json:"id"`
}

type GetArtworkResponse struct {
	Artwork Artwork `json:"artwork"`
}

type GetMyArtworksRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyArtworksResponse struct {
	Artworks []Artwork `json:"artworks"`
}
