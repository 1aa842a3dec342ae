package models

import "strings"

const (
	CapitalUnavailable = "Capital not available"
)

// Query is a normalized country name, used both as the cache key and the API path parameter.
type Query string

// NormalizeQuery trims surrounding whitespace and lowercases the input.
func NormalizeQuery(raw string) Query {
	return Query(strings.ToLower(strings.TrimSpace(raw)))
}

// IsEmpty reports whether the query carries no country name.
func (q Query) IsEmpty() bool {
	return q == ""
}

func (q Query) String() string {
	return string(q)
}

// CountryRecord is the decoded response of a name lookup: one entry per matching country.
type CountryRecord []CountryEntry

// CountryEntry holds the fields of a REST Countries object this application reads.
type CountryEntry struct {
	Name    CountryName `json:"name"`
	Capital []string    `json:"capital,omitempty"`
	Flags   CountryFlag `json:"flags"`
}

type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type CountryFlag struct {
	PNG string `json:"png"`
	Alt string `json:"alt,omitempty"`
}

// Capital returns the first capital of the first entry, or CapitalUnavailable.
func (r CountryRecord) Capital() string {
	if len(r) == 0 || len(r[0].Capital) == 0 || r[0].Capital[0] == "" {
		return CapitalUnavailable
	}
	return r[0].Capital[0]
}

// FlagURL returns the PNG flag location of the first entry, empty when absent.
func (r CountryRecord) FlagURL() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Flags.PNG
}

// CommonName returns the display name of the first entry.
func (r CountryRecord) CommonName() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Name.Common
}

// OfficialName returns the official name of the first entry, falling back to the common name.
func (r CountryRecord) OfficialName() string {
	if len(r) == 0 {
		return ""
	}
	if r[0].Name.Official == "" {
		return r[0].Name.Common
	}
	return r[0].Name.Official
}

// FlagDescription returns the accessibility text of the first entry's flag.
func (r CountryRecord) FlagDescription() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Flags.Alt
}
