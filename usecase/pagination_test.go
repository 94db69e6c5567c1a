package usecase

import "testing"

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		total, page, pageSize int
		pages                 int
		hasNext, hasPrev      bool
	}{
		{0, 1, 10, 0, false, false},
		{25, 1, 10, 3, true, false},
		{25, 2, 10, 3, true, true},
		{25, 3, 10, 3, false, true},
		{25, 9, 10, 3, false, true},
		{10, 1, 10, 1, false, false},
		{11, 1, 10, 2, true, false},
	}
	for _, tc := range cases {
		meta := NewPageMeta(tc.total, tc.page, tc.pageSize)
		if meta.Pages != tc.pages || meta.HasNext != tc.hasNext || meta.HasPrev != tc.hasPrev {
			t.Errorf("NewPageMeta(%d,%d,%d) = %+v, want pages=%d next=%v prev=%v",
				tc.total, tc.page, tc.pageSize, meta, tc.pages, tc.hasNext, tc.hasPrev)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	page, size, offset := NormalizePage(0, 0, 20, 100)
	if page != 1 || size != 20 || offset != 0 {
		t.Errorf("defaults: page=%d size=%d offset=%d", page, size, offset)
	}

	page, size, offset = NormalizePage(3, 10, 20, 100)
	if page != 3 || size != 10 || offset != 20 {
		t.Errorf("page 3: page=%d size=%d offset=%d", page, size, offset)
	}

	_, size, _ = NormalizePage(1, 1000, 20, 100)
	if size != 100 {
		t.Errorf("oversized page size not clamped: %d", size)
	}
}
