package ingest

import (
	"sort"

	"scholargraph/internal/models"
)

// Batch is the deduplicated output of one accumulation pass, ordered
// deterministically so replays issue identical store operations.
type Batch struct {
	Documents      []models.Document
	Authors        []models.Author
	Affiliations   []models.Affiliation
	Publications   []models.Publication
	AuthorOf       []models.AuthorOf
	AffiliatedWith []models.AffiliatedWith
	PublishedIn    []models.PublishedIn
	CoAuthorships  []models.CoAuthorship
}

type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// Accumulator merges repeated sightings of the same entity across a
// run into canonical keyed maps and accumulates relationship sets.
// It is owned by the caller: construct, feed records, finalize once.
type Accumulator struct {
	documents    map[string]models.Document
	authors      map[string]models.Author
	affiliations map[string]models.Affiliation
	publications map[string]models.Publication

	authorOf       map[[2]string]models.AuthorOf
	affiliatedWith map[[2]string]models.AffiliatedWith
	publishedIn    map[[2]string]models.PublishedIn
	coAuthorDocs   map[pairKey]map[string]struct{}
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		documents:      map[string]models.Document{},
		authors:        map[string]models.Author{},
		affiliations:   map[string]models.Affiliation{},
		publications:   map[string]models.Publication{},
		authorOf:       map[[2]string]models.AuthorOf{},
		affiliatedWith: map[[2]string]models.AffiliatedWith{},
		publishedIn:    map[[2]string]models.PublishedIn{},
		coAuthorDocs:   map[pairKey]map[string]struct{}{},
	}
}

// Add feeds one normalized record. Later sightings of an entity win
// attribute-wise (last-write-wins, matching the store's merge).
func (acc *Accumulator) Add(doc models.Document, authors []models.Author, affils []models.Affiliation, pub *models.Publication) {
	acc.documents[doc.DocumentID] = doc

	for _, a := range authors {
		acc.authors[a.AuthorID] = a
		acc.authorOf[[2]string{a.AuthorID, doc.DocumentID}] = models.AuthorOf{AuthorID: a.AuthorID, DocumentID: doc.DocumentID}
		for _, af := range affils {
			acc.affiliatedWith[[2]string{a.AuthorID, af.AffiliationID}] = models.AffiliatedWith{AuthorID: a.AuthorID, AffiliationID: af.AffiliationID}
		}
	}
	for _, af := range affils {
		acc.affiliations[af.AffiliationID] = af
	}
	if pub != nil {
		acc.publications[pub.PublicationID] = *pub
		acc.publishedIn[[2]string{doc.DocumentID, pub.PublicationID}] = models.PublishedIn{DocumentID: doc.DocumentID, PublicationID: pub.PublicationID}
	}

	// Every unordered author pair on this document counts once for it.
	for i := 0; i < len(authors); i++ {
		for j := i + 1; j < len(authors); j++ {
			if authors[i].AuthorID == authors[j].AuthorID {
				continue
			}
			key := newPairKey(authors[i].AuthorID, authors[j].AuthorID)
			docs, ok := acc.coAuthorDocs[key]
			if !ok {
				docs = map[string]struct{}{}
				acc.coAuthorDocs[key] = docs
			}
			docs[doc.DocumentID] = struct{}{}
		}
	}
}

func (acc *Accumulator) Finalize() Batch {
	batch := Batch{
		Documents:      sortedValues(acc.documents, func(d models.Document) string { return d.DocumentID }),
		Authors:        sortedValues(acc.authors, func(a models.Author) string { return a.AuthorID }),
		Affiliations:   sortedValues(acc.affiliations, func(a models.Affiliation) string { return a.AffiliationID }),
		Publications:   sortedValues(acc.publications, func(p models.Publication) string { return p.PublicationID }),
		AuthorOf:       sortedPairValues(acc.authorOf, func(r models.AuthorOf) [2]string { return [2]string{r.AuthorID, r.DocumentID} }),
		AffiliatedWith: sortedPairValues(acc.affiliatedWith, func(r models.AffiliatedWith) [2]string { return [2]string{r.AuthorID, r.AffiliationID} }),
		PublishedIn:    sortedPairValues(acc.publishedIn, func(r models.PublishedIn) [2]string { return [2]string{r.DocumentID, r.PublicationID} }),
	}

	for key, docs := range acc.coAuthorDocs {
		ids := make([]string, 0, len(docs))
		for id := range docs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		batch.CoAuthorships = append(batch.CoAuthorships, models.CoAuthorship{
			Author1ID:   key.a,
			Author2ID:   key.b,
			Count:       len(ids),
			DocumentIDs: ids,
		})
	}
	sort.Slice(batch.CoAuthorships, func(i, j int) bool {
		a, b := batch.CoAuthorships[i], batch.CoAuthorships[j]
		if a.Author1ID != b.Author1ID {
			return a.Author1ID < b.Author1ID
		}
		return a.Author2ID < b.Author2ID
	})
	return batch
}

func (acc *Accumulator) Counts() models.IngestStats {
	return models.IngestStats{
		Documents:    len(acc.documents),
		Authors:      len(acc.authors),
		Affiliations: len(acc.affiliations),
		Publications: len(acc.publications),
	}
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

func sortedPairValues[T any](m map[[2]string]T, key func(T) [2]string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	return out
}
