package utils

// PageOffset converts a 1-indexed page into a query offset.
func PageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit). Zero rows means zero pages.
func TotalPages(total int64, limit int) int {
	if limit < 1 || total < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
