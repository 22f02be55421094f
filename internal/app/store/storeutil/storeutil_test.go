package storeutil

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		page, limit         int64
		wantPage, wantLimit int64
	}{
		{0, 0, 1, DefaultLimit},
		{-3, 5, 1, 5},
		{2, 500, 2, MaxLimit},
		{4, 25, 4, 25},
		{math.MaxInt64, 20, math.MaxInt64 / 20, 20},
	}
	for _, tt := range tests {
		p, l := Normalize(tt.page, tt.limit)
		if p != tt.wantPage || l != tt.wantLimit {
			t.Errorf("Normalize(%d, %d) = (%d, %d), want (%d, %d)", tt.page, tt.limit, p, l, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ total, limit, want int64 }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 4, 7},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	opts := Paginate(10, 3)
	if opts.Limit == nil || *opts.Limit != 10 {
		t.Fatalf("limit = %v, want 10", opts.Limit)
	}
	if opts.Skip == nil || *opts.Skip != 20 {
		t.Fatalf("skip = %v, want 20", opts.Skip)
	}
}

func TestSkip_HugePageDoesNotOverflow(t *testing.T) {
	for _, limit := range []int64{1, 7, 20, MaxLimit} {
		for _, page := range []int64{922337203685477581, math.MaxInt64} {
			if got := Skip(page, limit); got < 0 {
				t.Errorf("Skip(%d, %d) = %d, want >= 0", page, limit, got)
			}
			if opts := Paginate(limit, page); opts.Skip == nil || *opts.Skip < 0 {
				t.Errorf("Paginate(%d, %d).Skip = %v, want >= 0", limit, page, opts.Skip)
			}
		}
	}
}
