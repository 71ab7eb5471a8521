package appointments

import (
	"math"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Pagination ограничения размера страницы
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPagination значения по умолчанию
func DefaultPagination() Pagination {
	return Pagination{
		DefaultLimit: domain.DefaultLimit,
		MaxLimit:     domain.MaxLimit,
	}
}

// Normalize приводит номер страницы и лимит к допустимым значениям
// page нумеруется с 1, лимит ограничен сверху MaxLimit.
// Номер страницы ограничен так, чтобы смещение помещалось в bigint
func (p Pagination) Normalize(page, limit int) (int, int) {
	if page <= 0 {
		page = domain.DefaultPage
	}
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// Offset переводит (page, limit) в число пропускаемых строк
func Offset(page, limit int) uint64 {
	return uint64((page - 1) * limit)
}
