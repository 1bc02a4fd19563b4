package pagination

// Meta describes a paginated listing in structured output.
type Meta struct {
	Offset   int  `json:"offset"`
	Limit    int  `json:"limit,omitempty"`
	Returned int  `json:"returned"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
	Pages    int  `json:"pages_fetched"`
	HasMore  bool `json:"more_upstream"`
}

// NewMeta describes the window p selected out of total items, plus the
// upstream paging state.
func NewMeta(p Params, total, returned, pagesFetched int, upstreamHasMore bool) Meta {
	return Meta{
		Offset:   p.Offset,
		Limit:    p.Limit,
		Returned: returned,
		Total:    total,
		HasNext:  p.Offset+returned < total,
		Pages:    pagesFetched,
		HasMore:  upstreamHasMore,
	}
}
