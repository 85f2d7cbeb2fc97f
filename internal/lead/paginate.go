package lead

// Ellipsis marks a gap in a windowed page-number sequence.
const Ellipsis = -1

// Paginate returns the 1-indexed page as a plain slice of the input. An
// offset past the end yields an empty slice; it never panics. Callers are
// expected to clamp page to [1, TotalPages] for navigation.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is max(1, ceil(totalItems / pageSize)).
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageNumbers produces the windowed page-control sequence, with Ellipsis
// standing in for collapsed ranges:
//
//	total <= 7:        1 2 3 4 5 6 7
//	current <= 3:      1 2 3 4 … last
//	current >= last-2: 1 … last-3 last-2 last-1 last
//	otherwise:         1 … current-1 current current+1 … last
func PageNumbers(current, total int) []int {
	if total <= 7 {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	if current <= 3 {
		return []int{1, 2, 3, 4, Ellipsis, total}
	}
	if current >= total-2 {
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	}
	return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
}

// PageRange reports the 1-indexed item span shown on a page, for "showing
// X-Y of N" labels. An empty collection reports 0-0.
func PageRange(totalItems, page, pageSize int) (from, to int) {
	if totalItems == 0 {
		return 0, 0
	}
	from = (page-1)*pageSize + 1
	to = page * pageSize
	if to > totalItems {
		to = totalItems
	}
	return from, to
}
