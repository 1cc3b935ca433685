package workflow

// DefaultPageSize is the number of outfits shown per page
const DefaultPageSize = 12

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// TotalPages returns ceil(total/pageSize), at least 1
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return totalPages
}

// Paginate slices items into the 1-based page, clamping page into range
func Paginate[T any](items []T, page, pageSize int) PageResult[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := TotalPages(len(items), pageSize)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return PageResult[T]{
		Items:      data,
		Total:      len(items),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
