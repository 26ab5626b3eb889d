package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a FOR UPDATE row lock to the query. SQLite has no
// row-level locks and rejects the clause; its writes serialise on the
// database handle instead. In-memory SQLite tests therefore never execute
// the locking clause itself; that path runs only against Postgres, MySQL
// and SQL Server.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
