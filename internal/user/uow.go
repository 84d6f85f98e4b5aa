// AngelaMos | 2026
// uow.go

package user

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/profile"
)

// UnitOfWork runs fn with repositories bound to one transaction. Nothing fn
// wrote survives an error.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(users Repository, profiles profile.Repository) error) error
}

type txUnitOfWork struct {
	db core.TxBeginner
}

func NewUnitOfWork(db core.TxBeginner) UnitOfWork {
	return &txUnitOfWork{db: db}
}

func (u *txUnitOfWork) Do(
	ctx context.Context,
	fn func(users Repository, profiles profile.Repository) error,
) error {
	return core.InTx(ctx, u.db, func(tx *sqlx.Tx) error {
		return fn(NewRepository(tx), profile.NewRepository(tx))
	})
}
