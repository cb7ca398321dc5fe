package pagination

import (
	"net/url"
	"testing"
)

func TestParseParamsDefaults(t *testing.T) {
	params := ParseParams(url.Values{})
	if params.Page != 1 || params.Limit != 10 {
		t.Fatalf("expected defaults page=1 limit=10, got %+v", params)
	}
}

func TestParseParamsClampsInvalidValues(t *testing.T) {
	cases := []struct {
		name      string
		query     url.Values
		wantPage  int
		wantLimit int
	}{
		{"negative page", url.Values{"page": {"-3"}}, 1, 10},
		{"zero page", url.Values{"page": {"0"}}, 1, 10},
		{"garbage page", url.Values{"page": {"abc"}}, 1, 10},
		{"limit above cap", url.Values{"limit": {"5000"}}, 1, MaxLimit},
		{"negative limit", url.Values{"limit": {"-1"}}, 1, 10},
		{"valid values", url.Values{"page": {"4"}, "limit": {"25"}}, 4, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := ParseParams(tc.query)
			if params.Page != tc.wantPage || params.Limit != tc.wantLimit {
				t.Fatalf("got %+v, want page=%d limit=%d", params, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	params := Params{Page: 3, Limit: 20}
	if got := params.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}

func TestNewPageMiddleOfResultSet(t *testing.T) {
	items := []string{"a", "b", "c"}
	page := NewPage(items, 25, Params{Page: 2, Limit: 10})

	if page.TotalCount != 25 || page.CurrentPage != 2 || page.Limit != 10 {
		t.Fatalf("unexpected envelope: %+v", page)
	}
	if page.NextPage == nil || *page.NextPage != 3 {
		t.Fatalf("expected nextPage 3, got %v", page.NextPage)
	}
	if page.PreviousPage == nil || *page.PreviousPage != 1 {
		t.Fatalf("expected previousPage 1, got %v", page.PreviousPage)
	}
}

func TestNewPageFirstAndLastBoundaries(t *testing.T) {
	first := NewPage([]int{1}, 25, Params{Page: 1, Limit: 10})
	if first.PreviousPage != nil {
		t.Fatalf("expected no previousPage on first page, got %v", *first.PreviousPage)
	}
	if first.NextPage == nil || *first.NextPage != 2 {
		t.Fatalf("expected nextPage 2, got %v", first.NextPage)
	}

	last := NewPage([]int{1}, 25, Params{Page: 3, Limit: 10})
	if last.NextPage != nil {
		t.Fatalf("expected no nextPage on last page, got %v", *last.NextPage)
	}
	if last.PreviousPage == nil || *last.PreviousPage != 2 {
		t.Fatalf("expected previousPage 2, got %v", last.PreviousPage)
	}
}

func TestNewPageEmptyResultNeverNilItems(t *testing.T) {
	page := NewPage[string](nil, 0, Params{Page: 1, Limit: 10})
	if page.Items == nil {
		t.Fatal("expected items to serialize as an empty array, not null")
	}
	if len(page.Items) != 0 || page.NextPage != nil || page.PreviousPage != nil {
		t.Fatalf("unexpected envelope for empty result: %+v", page)
	}
}

func TestNewPageBeyondLastPage(t *testing.T) {
	page := NewPage[string](nil, 25, Params{Page: 9, Limit: 10})
	if page.NextPage != nil {
		t.Fatalf("expected no nextPage beyond the result set, got %v", *page.NextPage)
	}
	if page.PreviousPage == nil || *page.PreviousPage != 8 {
		t.Fatalf("expected previousPage 8, got %v", page.PreviousPage)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("expected empty items, got %v", page.Items)
	}
}
