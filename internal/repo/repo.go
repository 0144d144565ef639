package repo

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// isDuplicate recognizes a unique/primary key violation from the gorm
// error translator, a raw postgres error, or the sqlite driver tests
// run against.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
