package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func applyPagination(db *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return db.Offset((page - 1) * limit).Limit(limit)
}

var sortableColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"quantity":      true,
	"donation_date": true,
	"urgency":       true,
	"status":        true,
}

func applySort(db *gorm.DB, sortBy, sortOrder string) *gorm.DB {
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return db.Order(sortBy + " " + order)
}
