package model

import "time"

// Release is the subset of the GitHub "latest release" payload the checks use.
type Release struct {
	TagName     string    `json:"tag_name"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset describes a file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// SizeMB returns the asset size in mebibytes.
func (a Asset) SizeMB() float64 {
	return float64(a.Size) / (1024 * 1024)
}

// PagesStatus is the GitHub Pages build status of the repository.
type PagesStatus struct {
	Status  string `json:"status"`
	HTMLURL string `json:"html_url"`
}

// StructuredData holds the top-level keys of a JSON-LD block.
type StructuredData map[string]any

// RequiredStructuredDataFields are the keys the landing page must publish.
var RequiredStructuredDataFields = []string{
	"@context",
	"@type",
	"name",
	"description",
	"downloadUrl",
	"softwareVersion",
}

// String returns the value under key when it is a JSON string.
func (d StructuredData) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Missing lists the required fields absent from d, in declaration order.
// A nil map is missing every field.
func (d StructuredData) Missing() []string {
	var missing []string
	for _, field := range RequiredStructuredDataFields {
		if _, ok := d[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}
