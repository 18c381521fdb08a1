package domain

import "errors"

var (
	ErrNotFound  = errors.New("partner not found")
	ErrNameTaken = errors.New("partner name already exists")
)

// Link is a labeled external URL.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Partner is a collaborating company shown on the consumer sites. Partners
// carry no display ordering.
type Partner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Links []Link `json:"links"`
}
