package query

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     int
	Name   string
	Status string
}

func recordSpec() Spec[record] {
	cmp := NameCollator()
	return Spec[record]{
		Status: func(r record) string { return r.Status },
		Match: func(r record, search string) bool {
			return ContainsFold(r.Name, search) || ContainsFold(strconv.Itoa(r.ID), search)
		},
		Compare: func(a, b record) int {
			if c := cmp(a.Name, b.Name); c != 0 {
				return c
			}
			return a.ID - b.ID
		},
	}
}

func sampleRecords() []record {
	return []record{
		{ID: 1, Name: "Stark Enterprises", Status: "PENDING"},
		{ID: 2, Name: "acme corporation", Status: "SHIPPED"},
		{ID: 3, Name: "Globex Industries", Status: "PENDING"},
		{ID: 4, Name: "Acme Corporation", Status: "DELIVERED"},
		{ID: 5, Name: "Bluth Company", Status: "PENDING"},
		{ID: 6, Name: "Wayne Enterprises", Status: "CANCELLED"},
		{ID: 7, Name: "Initech", Status: "PENDING"},
	}
}

func TestRun_SortsByNameWithCollation(t *testing.T) {
	page := Run(sampleRecords(), Params{PageSize: 10}, recordSpec())

	names := make([]string, 0, len(page.Content))
	for _, r := range page.Content {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"acme corporation",
		"Acme Corporation",
		"Bluth Company",
		"Globex Industries",
		"Initech",
		"Stark Enterprises",
		"Wayne Enterprises",
	}, names)
	assert.Equal(t, 1, page.TotalPages)
}

func TestRun_StatusThenSearch(t *testing.T) {
	page := Run(sampleRecords(), Params{PageSize: 10, Status: "PENDING", Search: "ENTER"}, recordSpec())

	require.Len(t, page.Content, 1)
	assert.Equal(t, 1, page.Content[0].ID)
}

func TestRun_SearchMatchesID(t *testing.T) {
	page := Run(sampleRecords(), Params{PageSize: 10, Search: "7"}, recordSpec())

	require.Len(t, page.Content, 1)
	assert.Equal(t, "Initech", page.Content[0].Name)
}

func TestRun_EmptyResult(t *testing.T) {
	page := Run(sampleRecords(), Params{PageSize: 3, Search: "no such name"}, recordSpec())

	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, 0, page.TotalPages)
}

func TestRun_PageBeyondEnd(t *testing.T) {
	page := Run(sampleRecords(), Params{Page: 50, PageSize: 3}, recordSpec())

	assert.Empty(t, page.Content)
	assert.Equal(t, 3, page.TotalPages)
}

func TestRun_NormalizesParams(t *testing.T) {
	page := Run(sampleRecords(), Params{Page: -2, PageSize: 0}, recordSpec())

	assert.Len(t, page.Content, 7)
	assert.Equal(t, 1, page.TotalPages)
}

func TestRun_Idempotent(t *testing.T) {
	items := sampleRecords()
	p := Params{Page: 1, PageSize: 2, Search: "e"}

	first := Run(items, p, recordSpec())
	second := Run(items, p, recordSpec())

	assert.Equal(t, first, second)
	assert.Equal(t, sampleRecords(), items, "input must not be reordered")
}

func TestRun_PagesCoverFilteredSetOnce(t *testing.T) {
	items := sampleRecords()
	for size := 1; size <= len(items)+1; size++ {
		all := Run(items, Params{PageSize: len(items)}, recordSpec()).Content

		first := Run(items, Params{PageSize: size}, recordSpec())
		var joined []record
		for page := 0; page < first.TotalPages; page++ {
			joined = append(joined, Run(items, Params{Page: page, PageSize: size}, recordSpec()).Content...)
		}

		assert.Equal(t, all, joined, "page size %d", size)
	}
}

func TestRun_TotalPagesRoundsUp(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{size: 1, want: 7},
		{size: 2, want: 4},
		{size: 3, want: 3},
		{size: 7, want: 1},
		{size: 100, want: 1},
	}
	for _, tt := range tests {
		page := Run(sampleRecords(), Params{PageSize: tt.size}, recordSpec())
		assert.Equal(t, tt.want, page.TotalPages, "size %d", tt.size)
	}
}
