package learning

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/lnd-backend/internal/pkg/errors"
)

func pick(db *gorm.DB, dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = db
	}
	return transaction.WithContext(dbc.Ctx)
}

// translate maps driver-level unique violations to ErrConflict.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.ErrConflict
	}
	return err
}

func takeOne[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func page(q *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
