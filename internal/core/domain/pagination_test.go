package domain

import "testing"

func TestNewPage_Clamping(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "zero values take defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 10},
		{name: "negative page clamps to first", page: -3, limit: 20, wantPage: 1, wantLimit: 20},
		{name: "negative limit takes default", page: 2, limit: -1, wantPage: 2, wantLimit: 10},
		{name: "limit capped at maximum", page: 1, limit: 500, wantPage: 1, wantLimit: 100},
		{name: "in-range values pass through", page: 3, limit: 25, wantPage: 3, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.page, tt.limit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("NewPage(%d, %d) = %+v, want page %d limit %d",
					tt.page, tt.limit, p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPage_Offset(t *testing.T) {
	if got := NewPage(1, 10).Offset(); got != 0 {
		t.Errorf("first page offset = %d, want 0", got)
	}
	if got := NewPage(4, 25).Offset(); got != 75 {
		t.Errorf("offset = %d, want 75", got)
	}
}

func TestPage_Meta(t *testing.T) {
	tests := []struct {
		name           string
		page           Page
		total          int
		wantTotalPages int
		wantHasNext    bool
		wantHasPrev    bool
	}{
		{name: "empty result", page: NewPage(1, 10), total: 0, wantTotalPages: 0},
		{name: "partial last page rounds up", page: NewPage(1, 10), total: 25, wantTotalPages: 3, wantHasNext: true},
		{name: "exact multiple", page: NewPage(2, 10), total: 20, wantTotalPages: 2, wantHasPrev: true},
		{name: "middle page has both", page: NewPage(2, 10), total: 35, wantTotalPages: 4, wantHasNext: true, wantHasPrev: true},
		{name: "last page has only prev", page: NewPage(4, 10), total: 35, wantTotalPages: 4, wantHasPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := tt.page.Meta(tt.total)
			if meta.Total != tt.total {
				t.Errorf("total = %d, want %d", meta.Total, tt.total)
			}
			if meta.TotalPages != tt.wantTotalPages {
				t.Errorf("totalPages = %d, want %d", meta.TotalPages, tt.wantTotalPages)
			}
			if meta.HasNext != tt.wantHasNext {
				t.Errorf("hasNext = %v, want %v", meta.HasNext, tt.wantHasNext)
			}
			if meta.HasPrev != tt.wantHasPrev {
				t.Errorf("hasPrev = %v, want %v", meta.HasPrev, tt.wantHasPrev)
			}
		})
	}
}
