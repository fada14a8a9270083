// Package models defines the domain types for inkwell.
package models

import "time"

// DocumentMeta is the lightweight result of a directory scan.
type DocumentMeta struct {
	Filename string    `json:"filename"`
	ModTime  time.Time `json:"mod_time"`
}

// PageEntry is a row of the index listing.
type PageEntry struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Datetime string `json:"datetime"`

	// TitleRecovered is set when the first line could not be read and the
	// filename stands in for the title.
	TitleRecovered bool `json:"-"`
}
