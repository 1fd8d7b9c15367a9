package scopus

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is one raw Scopus search entry. Every field is optional and
// several arrive in variant shapes, so decoding must never fail hard:
// sub-lists may be a single object or an array, and numeric counts may
// be quoted.
type Record struct {
	DOI             string          `json:"prism:doi"`
	Identifier      string          `json:"dc:identifier"`
	Title           string          `json:"dc:title"`
	Description     string          `json:"dc:description"`
	CoverDate       string          `json:"prism:coverDate"`
	CitedByCount    FlexInt         `json:"citedby-count"`
	PublicationName string          `json:"prism:publicationName"`
	ISSN            string          `json:"prism:issn"`
	Publisher       string          `json:"dc:publisher"`
	Authors         RawAuthorList   `json:"author"`
	Affiliations    RawAffilList    `json:"affiliation"`
	Extra           json.RawMessage `json:"-"`
}

type RawAuthor struct {
	AuthID      string `json:"authid"`
	AuID        string `json:"@auid"`
	AuthName    string `json:"authname"`
	IndexedName string `json:"ce:indexed-name"`
	ORCID       string `json:"orcid"`
	Seq         string `json:"@seq"`
}

type RawAffiliation struct {
	AfID    string `json:"afid"`
	Name    string `json:"affilname"`
	City    string `json:"affiliation-city"`
	Country string `json:"affiliation-country"`
}

// RawAuthorList accepts both a bare object and an array of objects.
type RawAuthorList []RawAuthor

func (l *RawAuthorList) UnmarshalJSON(data []byte) error {
	return unmarshalOneOrMany(data, (*[]RawAuthor)(l), func() RawAuthor { return RawAuthor{} })
}

type RawAffilList []RawAffiliation

func (l *RawAffilList) UnmarshalJSON(data []byte) error {
	return unmarshalOneOrMany(data, (*[]RawAffiliation)(l), func() RawAffiliation { return RawAffiliation{} })
}

func unmarshalOneOrMany[T any](data []byte, out *[]T, _ func() T) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*out = nil
		return nil
	}
	if data[0] == '[' {
		var many []T
		if err := json.Unmarshal(data, &many); err != nil {
			*out = nil
			return nil
		}
		*out = many
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		*out = nil
		return nil
	}
	*out = []T{one}
	return nil
}

// FlexInt decodes from a JSON number or a quoted number. Anything
// unparseable degrades to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	s = trimQuotes(s)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
