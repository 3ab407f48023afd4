package uow

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrTxAlreadyOpen = errors.New("transaction already open")

// Factory hands each handler invocation its own UnitOfWork. Instances are
// never shared between invocations.
type Factory struct {
	DB *gorm.DB
}

func (f Factory) New() *UnitOfWork {
	return &UnitOfWork{base: f.DB}
}

// UnitOfWork owns one persistence handle and at most one open transaction
// for the duration of a single operation. Writes are registered with Create
// and Save, then flushed together by Complete.
type UnitOfWork struct {
	base    *gorm.DB
	tx      *gorm.DB
	pending []func(db *gorm.DB) *gorm.DB
}

func New(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{base: db}
}

// DB returns the transaction-scoped handle while a transaction is open,
// otherwise the base handle.
func (u *UnitOfWork) DB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.base
}

// Begin starts a transaction. Nested transactions are not supported.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxAlreadyOpen
	}
	tx := u.base.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

// Create registers an insert to be flushed by Complete.
func (u *UnitOfWork) Create(value any) {
	u.pending = append(u.pending, func(db *gorm.DB) *gorm.DB {
		return db.Create(value)
	})
}

// Save registers a full-row update to be flushed by Complete.
func (u *UnitOfWork) Save(value any) {
	u.pending = append(u.pending, func(db *gorm.DB) *gorm.DB {
		return db.Save(value)
	})
}

// Complete flushes every registered write in order and returns the number
// of affected rows. The first persistence error stops the flush and
// propagates untranslated.
func (u *UnitOfWork) Complete() (int64, error) {
	var affected int64
	for _, op := range u.pending {
		res := op(u.DB())
		if res.Error != nil {
			u.pending = nil
			return affected, res.Error
		}
		affected += res.RowsAffected
	}
	u.pending = nil
	return affected, nil
}

// Commit is a no-op when no transaction is open.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op when no transaction is open.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Close releases the unit of work, rolling back any transaction still open.
func (u *UnitOfWork) Close() {
	_ = u.Rollback()
}
