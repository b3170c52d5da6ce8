package resource

import "github.com/equipe-feedtrack/feedtrack/internal/domain"

// Paginate slices items into fixed-size pages. Pages are 1-based; a page
// below 1 is treated as 1 and a page past the end is empty.
func Paginate[T any](items []T, page, size int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	out := domain.Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
	start := (page - 1) * size
	if start >= total {
		return out
	}
	end := start + size
	if end > total {
		end = total
	}
	out.Items = append(out.Items, items[start:end]...)
	out.HasMore = end < total
	return out
}
