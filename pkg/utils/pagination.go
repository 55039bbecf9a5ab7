package utils

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
	// MaxPage keeps (page-1)*MaxLimit well inside int range.
	MaxPage = 1_000_000
)

// NormalizePage clamps page and limit to sane values, using defaultLimit when
// limit is unset.
func NormalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return (page - 1) * limit
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
