package database

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LimitOffset normaliza página (a partir de 1) e tamanho em LIMIT/OFFSET.
func LimitOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, (page - 1) * limit
}
