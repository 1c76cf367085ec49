package rules

import "testing"

func TestNormalizePage(t *testing.T) {
	testCases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{page: 0, size: 0, wantPage: 1, wantSize: DefaultPageSize},
		{page: -3, size: 25, wantPage: 1, wantSize: 25},
		{page: 4, size: 1000, wantPage: 4, wantSize: MaxPageSize},
	}

	for _, tc := range testCases {
		page, size := NormalizePage(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePage(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, page, size, tc.wantPage, tc.wantSize)
		}
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 10); got != 0 {
		t.Fatalf("empty set: got %d", got)
	}
	if got := TotalPages(10, 10); got != 1 {
		t.Fatalf("exact page: got %d", got)
	}
	if got := TotalPages(11, 10); got != 2 {
		t.Fatalf("partial page: got %d", got)
	}
}
