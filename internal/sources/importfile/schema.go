package importfile

import "github.com/MrSnakeDoc/hatebu/internal/domain"

// Entry is one bookmark in the import file.
//
//	- title: Example
//	  url: https://example.com
//	  last_updated_at: "May 31, 2022 at 08:00PM"
//	  users: [alice]
//	  b_url: https://b.hatena.ne.jp/entry/s/example.com
type Entry struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	URL           string   `yaml:"url"`
	LastUpdatedAt string   `yaml:"last_updated_at"`
	Users         []string `yaml:"users"`
	BURL          string   `yaml:"b_url"`
}

// File is the root of the import YAML: a flat list of entries.
type File []Entry

// Param converts the entry into repository input. Empty strings are absent.
func (e Entry) Param() domain.Param {
	return domain.Param{
		ID:            optional(e.ID),
		URL:           optional(e.URL),
		Title:         optional(e.Title),
		LastUpdatedAt: optional(e.LastUpdatedAt),
		Users:         e.Users,
		BURL:          optional(e.BURL),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
