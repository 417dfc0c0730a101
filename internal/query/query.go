package query

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Params selects one page of a filtered collection. Page is 0-indexed.
type Params struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// Page is one slice of a query result.
type Page[T any] struct {
	Content    []T `json:"content"`
	TotalPages int `json:"totalPages"`
}

// Spec describes how a record type is filtered and ordered.
type Spec[T any] struct {
	// Status returns the value compared against Params.Status.
	// A nil Status ignores Params.Status.
	Status func(T) string
	// Match reports whether the record matches a lower-cased search term.
	Match func(item T, search string) bool
	// Compare orders the filtered records.
	Compare func(a, b T) int
}

// Normalize clamps page and page size into the accepted range.
func (p Params) Normalize(defaultSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	return p
}

// Run filters by status, then by search, sorts, and returns the requested page.
// The input slice is never modified.
func Run[T any](items []T, p Params, spec Spec[T]) Page[T] {
	p = p.Normalize(DefaultPageSize)

	filtered := make([]T, 0, len(items))
	search := strings.ToLower(p.Search)
	for _, it := range items {
		if p.Status != "" && spec.Status != nil && spec.Status(it) != p.Status {
			continue
		}
		if search != "" && spec.Match != nil && !spec.Match(it, search) {
			continue
		}
		filtered = append(filtered, it)
	}

	if spec.Compare != nil {
		slices.SortStableFunc(filtered, spec.Compare)
	}

	total := len(filtered)
	totalPages := (total + p.PageSize - 1) / p.PageSize

	start := total
	if p.Page <= total/p.PageSize {
		start = min(p.Page*p.PageSize, total)
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	content := make([]T, end-start)
	copy(content, filtered[start:end])

	return Page[T]{Content: content, TotalPages: totalPages}
}

// ContainsFold reports whether field contains the lower-cased needle, ignoring case.
func ContainsFold(field, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(field), lowerNeedle)
}

// NameCollator returns a locale-aware string comparison for English names.
// A collator is not safe for concurrent use, so callers take a fresh one per query.
func NameCollator() func(a, b string) int {
	c := collate.New(language.English)
	return c.CompareString
}
