package domain

import "time"

// Category classifies a project.
type Category string

const (
	CategoryGame      Category = "game"
	CategoryAnimation Category = "animation"
	CategoryWeb       Category = "web"
	CategoryOther     Category = "other"
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryGame, CategoryAnimation, CategoryWeb, CategoryOther:
		return true
	}
	return false
}

// Link is a labeled external URL attached to a project or partner.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Media holds the project's image and video URLs, whether they came in as
// direct URLs or were uploaded to the blob store.
type Media struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Append adds URLs to the media lists, skipping any URL already present, so
// a retried update after a partial failure cannot duplicate entries.
func (m *Media) Append(images, videos []string) {
	m.Images = appendUnique(m.Images, images)
	m.Videos = appendUnique(m.Videos, videos)
}

func appendUnique(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[u] = true
	}
	for _, u := range added {
		if u == "" || seen[u] {
			continue
		}
		existing = append(existing, u)
		seen[u] = true
	}
	return existing
}

// Project is a portfolio entry. Order maps each consumer app to the
// project's 1-based display rank in that app; for every app the ranks of
// all projects form a dense 1..N sequence with no gaps or duplicates.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Customer    string          `json:"customer"`
	Description string          `json:"description"`
	Softwares   []string        `json:"softwares"`
	Thumbnail   string          `json:"thumbnail"`
	Media       Media           `json:"media"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Links       []Link          `json:"links"`
	Order       map[string]int  `json:"order"`
	Visibility  map[string]bool `json:"visibility"`
	Category    Category        `json:"category"`
}
