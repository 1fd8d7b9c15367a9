package scopus

import (
	"strconv"
	"strings"

	"scholargraph/internal/models"
)

// Normalizer turns raw Scopus records into canonical entities,
// restricted to papers carrying one of the configured institution
// affiliations. Extraction degrades per field and never errors: a
// missing field becomes empty, a record without an identity is simply
// not a document.
type Normalizer struct {
	institutions []string
}

func NewNormalizer(institutions []string) *Normalizer {
	lowered := make([]string, 0, len(institutions))
	for _, inst := range institutions {
		if inst = strings.ToLower(strings.TrimSpace(inst)); inst != "" {
			lowered = append(lowered, inst)
		}
	}
	return &Normalizer{institutions: lowered}
}

func (n *Normalizer) IsTargetInstitution(rec Record) bool {
	for _, affil := range rec.Affiliations {
		name := strings.ToLower(affil.Name)
		if name == "" {
			continue
		}
		for _, inst := range n.institutions {
			if strings.Contains(name, inst) {
				return true
			}
		}
	}
	return false
}

// ExtractDocument resolves identity as DOI, else the Scopus id. A
// record with neither is dropped by the caller.
func (n *Normalizer) ExtractDocument(rec Record) (models.Document, bool) {
	doi := strings.TrimSpace(rec.DOI)
	scopusID := strings.TrimPrefix(strings.TrimSpace(rec.Identifier), "SCOPUS_ID:")
	documentID := doi
	if documentID == "" {
		documentID = scopusID
	}
	if documentID == "" {
		return models.Document{}, false
	}
	return models.Document{
		DocumentID:    documentID,
		Title:         rec.Title,
		Abstract:      rec.Description,
		Year:          parseYear(rec.CoverDate),
		CitationCount: int(rec.CitedByCount),
		DOI:           doi,
		ScopusID:      scopusID,
	}, true
}

// ExtractAuthors keeps source order; entries without an author id are
// skipped individually.
func (n *Normalizer) ExtractAuthors(rec Record) []models.Author {
	authors := make([]models.Author, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		id := strings.TrimSpace(a.AuthID)
		if id == "" {
			id = strings.TrimSpace(a.AuID)
		}
		if id == "" {
			continue
		}
		name := a.AuthName
		if name == "" {
			name = a.IndexedName
		}
		authors = append(authors, models.Author{
			AuthorID: id,
			FullName: name,
			ORCID:    a.ORCID,
		})
	}
	return authors
}

func (n *Normalizer) ExtractAffiliations(rec Record) []models.Affiliation {
	affils := make([]models.Affiliation, 0, len(rec.Affiliations))
	for _, a := range rec.Affiliations {
		id := strings.TrimSpace(a.AfID)
		if id == "" {
			continue
		}
		affils = append(affils, models.Affiliation{
			AffiliationID: id,
			Name:          a.Name,
			City:          a.City,
			Country:       a.Country,
		})
	}
	return affils
}

// ExtractPublication keys the venue by ISSN, else a normalized-name
// key. A record without a venue name has no publication at all.
func (n *Normalizer) ExtractPublication(rec Record) (models.Publication, bool) {
	name := strings.TrimSpace(rec.PublicationName)
	if name == "" {
		return models.Publication{}, false
	}
	issn := strings.TrimSpace(rec.ISSN)
	id := issn
	if id == "" {
		id = "name_" + strings.ReplaceAll(strings.ToLower(name), " ", "_")
	}
	return models.Publication{
		PublicationID: id,
		Name:          name,
		ISSN:          issn,
		Publisher:     rec.Publisher,
	}, true
}

func parseYear(date string) *int {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	head := date
	if i := strings.IndexByte(date, '-'); i > 0 {
		head = date[:i]
	}
	year, err := strconv.Atoi(head)
	if err != nil || year < 1000 || year > 9999 {
		return nil
	}
	return &year
}
