package definition

// MaxPageSize caps a single page.
const MaxPageSize = 1000

// PageSpec requests a bounded slice of a result set. PageNo is 1-based.
type PageSpec struct {
	PageNo   int `json:"pageNo"`
	PageSize int `json:"pageSize"`
}

// Validate rejects specs that cannot be turned into an offset/limit pair.
func (p PageSpec) Validate() error {
	if p.PageNo < 1 {
		return InvalidArgumentf("pageNo must be >= 1")
	}
	if p.PageSize < 1 {
		return InvalidArgumentf("pageSize must be >= 1")
	}
	if p.PageSize > MaxPageSize {
		return InvalidArgumentf("pageSize must be <= %d", MaxPageSize)
	}
	return nil
}

// Offset is the number of rows skipped before this page.
func (p PageSpec) Offset() uint64 {
	return uint64(p.PageNo-1) * uint64(p.PageSize)
}

// Limit is the maximum number of rows in this page.
func (p PageSpec) Limit() uint64 {
	return uint64(p.PageSize)
}

// Page is a bounded result together with the total number of matching rows.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	PageNo   int   `json:"pageNo"`
	PageSize int   `json:"pageSize"`
}

// NewPage builds a page for spec.
func NewPage[T any](spec PageSpec, items []T, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, PageNo: spec.PageNo, PageSize: spec.PageSize}
}

// TotalPages is the number of pages needed to hold Total rows.
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
