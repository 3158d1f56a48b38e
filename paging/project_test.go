package paging

import (
	"fmt"
	"strings"
	"testing"
)

type row struct {
	ID       int
	Name     string
	Category string
}

type rowView struct {
	Label string
}

func rowCatalog() *Catalog[row] {
	return NewCatalog(By(func(r row) int { return r.ID })).
		Field("Name", By(func(r row) string { return r.Name })).
		Field("Category", By(func(r row) string { return r.Category }))
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{ID: i + 1, Name: fmt.Sprintf("item-%02d", i+1), Category: []string{"a", "b"}[i%2]}
	}
	return out
}

func toView(r row) rowView { return rowView{Label: r.Name} }

func TestProject_FirstPageDescending(t *testing.T) {
	result, err := Project(rows(40), nil, rowCatalog(), "Id", Descending, 0, 15, toView)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if len(result.Items) != 15 {
		t.Errorf("expected 15 items, got %d", len(result.Items))
	}
	if result.TotalItems != 40 || result.TotalPages != 3 {
		t.Errorf("expected 40 items over 3 pages, got %d over %d", result.TotalItems, result.TotalPages)
	}
	if !result.HasNextPage() || result.HasPreviousPage() {
		t.Errorf("expected next and no previous, got next=%v previous=%v", result.HasNextPage(), result.HasPreviousPage())
	}
	if result.Items[0].Label != "item-40" {
		t.Errorf("expected descending order to start at item-40, got %s", result.Items[0].Label)
	}
}

func TestProject_LastPage(t *testing.T) {
	result, err := Project(rows(40), nil, rowCatalog(), "Id", Descending, 2, 15, toView)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if len(result.Items) != 10 {
		t.Errorf("expected remaining 10 items, got %d", len(result.Items))
	}
	if result.HasNextPage() || !result.HasPreviousPage() {
		t.Errorf("expected previous and no next, got next=%v previous=%v", result.HasNextPage(), result.HasPreviousPage())
	}
	if result.Items[9].Label != "item-01" {
		t.Errorf("expected last item to be item-01, got %s", result.Items[9].Label)
	}
}

func TestProject_BeyondLastPage(t *testing.T) {
	result, err := Project(rows(40), nil, rowCatalog(), "Id", Ascending, 7, 15, toView)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if result.Items == nil || len(result.Items) != 0 {
		t.Errorf("expected empty, non-nil items, got %v", result.Items)
	}
	if result.TotalItems != 40 || result.TotalPages != 3 {
		t.Errorf("expected totals to be populated, got %+v", result)
	}
}

func TestProject_OffsetOverflowIsBeyondLastPage(t *testing.T) {
	result, err := Project(rows(3), nil, rowCatalog(), "Id", Ascending, int(^uint(0)>>1), 2, toView)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(result.Items) != 0 || result.TotalItems != 3 {
		t.Errorf("expected empty page with totals, got %+v", result)
	}
}

func TestProject_FilterAndCaseInsensitiveField(t *testing.T) {
	onlyA := func(r row) bool { return r.Category == "a" }

	result, err := Project(rows(10), onlyA, rowCatalog(), "name", Ascending, 0, 3, toView)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if result.TotalItems != 5 || result.TotalPages != 2 {
		t.Errorf("expected 5 filtered items over 2 pages, got %+v", result)
	}
	labels := []string{result.Items[0].Label, result.Items[1].Label, result.Items[2].Label}
	if strings.Join(labels, ",") != "item-01,item-03,item-05" {
		t.Errorf("unexpected order %v", labels)
	}
}

func TestProject_TieBreakIsStable(t *testing.T) {
	source := []row{
		{ID: 3, Category: "x"},
		{ID: 1, Category: "x"},
		{ID: 2, Category: "x"},
		{ID: 4, Category: "w"},
	}
	idOf := func(r row) int { return r.ID }

	asc, _ := Project(source, nil, rowCatalog(), "Category", Ascending, 0, 10, idOf)
	desc, _ := Project(source, nil, rowCatalog(), "Category", Descending, 0, 10, idOf)

	if fmt.Sprint(asc.Items) != "[4 1 2 3]" {
		t.Errorf("ascending tie-break: got %v", asc.Items)
	}
	if fmt.Sprint(desc.Items) != "[3 2 1 4]" {
		t.Errorf("descending tie-break: got %v", desc.Items)
	}

	for page := 0; page < 2; page++ {
		a, _ := Project(source, nil, rowCatalog(), "Category", Ascending, page, 2, idOf)
		b, _ := Project(source, nil, rowCatalog(), "Category", Ascending, page, 2, idOf)
		if fmt.Sprint(a.Items) != fmt.Sprint(b.Items) {
			t.Errorf("page %d not reproducible: %v vs %v", page, a.Items, b.Items)
		}
	}
}

func TestProject_Errors(t *testing.T) {
	tests := []struct {
		name    string
		orderBy string
		page    int
		size    int
		check   func(error) bool
	}{
		{"unknown field", "Price", 0, 10, IsUnknownSortField},
		{"negative page", "Id", -1, 10, IsInvalidPageRequest},
		{"zero page size", "Id", 0, 0, IsInvalidPageRequest},
		{"negative page size", "Id", 0, -5, IsInvalidPageRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(rows(5), nil, rowCatalog(), tt.orderBy, Ascending, tt.page, tt.size, toView)
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestProject_PageBoundsProperty(t *testing.T) {
	for total := 0; total <= 25; total++ {
		for size := 1; size <= 7; size++ {
			for page := 0; page <= 5; page++ {
				result, err := Project(rows(total), nil, rowCatalog(), "Id", Ascending, page, size, toView)
				if err != nil {
					t.Fatalf("Project(%d,%d,%d) failed: %v", total, page, size, err)
				}
				if len(result.Items) > size {
					t.Fatalf("page larger than page size: %d > %d", len(result.Items), size)
				}
				want := (total + size - 1) / size
				if result.TotalPages != want {
					t.Fatalf("TotalPages(%d/%d) = %d, want %d", total, size, result.TotalPages, want)
				}
			}
		}
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    SortDirection
		wantErr bool
	}{
		{"Ascending", Ascending, false},
		{"asc", Ascending, false},
		{"", Ascending, false},
		{"Descending", Descending, false},
		{"DESC", Descending, false},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSortDirection(tt.in)
		if tt.wantErr {
			if !IsInvalidPageRequest(err) {
				t.Errorf("ParseSortDirection(%q) expected error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSortDirection(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPaginatedResult_Navigation(t *testing.T) {
	tests := []struct {
		page, total, size int
		next, previous    bool
	}{
		{0, 0, 10, false, false},
		{0, 10, 10, false, false},
		{0, 11, 10, true, false},
		{1, 11, 10, false, true},
	}

	for _, tt := range tests {
		r := NewPaginatedResult[int](nil, tt.total, tt.page, tt.size)
		if r.HasNextPage() != tt.next || r.HasPreviousPage() != tt.previous {
			t.Errorf("page %d of %d/%d: next=%v previous=%v", tt.page, tt.total, tt.size, r.HasNextPage(), r.HasPreviousPage())
		}
	}
}
