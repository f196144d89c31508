// Package content defines the application's core content-related domain entities.
package content

import "time"

// Card is a saved flex-message document.
type Card struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profileId"`
	Name       string     `json:"name"`
	AltText    string     `json:"altText"`
	FlexJSON   string     `json:"flexJson"`
	HTMLFormat string     `json:"htmlFormat"`
	EditorJSON string     `json:"editorJson,omitempty"`
	Created    time.Time  `json:"created"`
	Changed    *time.Time `json:"changed,omitempty"`
}

// CardSummary is the listing view of a card without its payloads.
type CardSummary struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	AltText string     `json:"altText"`
	Created time.Time  `json:"created"`
	Changed *time.Time `json:"changed,omitempty"`
}

// Summary drops the payloads from c.
func (c *Card) Summary() CardSummary {
	return CardSummary{ID: c.ID, Name: c.Name, AltText: c.AltText, Created: c.Created, Changed: c.Changed}
}

// MediaKind distinguishes uploaded assets.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaFile is an uploaded asset referenced by url from a document.
type MediaFile struct {
	ID        string    `json:"fileId"`
	ProfileID string    `json:"profileId"`
	Kind      MediaKind `json:"kind"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Size      int64     `json:"size"`
	Created   time.Time `json:"created"`
}
