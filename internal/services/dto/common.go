package dto

// Pagination is the standard list query fragment bound from the query string.
type Pagination struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// PageMeta describes one page of a listing in responses.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func NewPageMeta(page, limit int, total int64) PageMeta {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return PageMeta{Page: page, Limit: limit, Total: total}
}
