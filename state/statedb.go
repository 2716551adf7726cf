package state

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TEENet-io/swapflow/database"
	_ "github.com/mattn/go-sqlite3"
)

// StateDB is a KVStore on top of a sql database (sqlite3).
type StateDB struct {
	stmtCache *database.StmtCache
}

func NewStateDB(db *sql.DB) (*StateDB, error) {
	// 1. Create the tables.
	if _, err := db.Exec(kvTable); err != nil {
		return nil, err
	}

	// 2. A stmt cache + db. Statements are prepared up front so that no
	// connection is needed for preparing while a transaction holds one.
	sc := database.NewStmtCache(db)
	for _, query := range []string{queryGet, queryPut} {
		if _, err := sc.Prepare(query); err != nil {
			sc.Clear()
			return nil, err
		}
	}

	return &StateDB{stmtCache: sc}, nil
}

// OpenSQLite opens (or creates) a sqlite3 database file, ":memory:" included.
func OpenSQLite(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	// sqlite has a single writer; one connection also keeps ":memory:"
	// databases from being split across connections.
	db.SetMaxOpenConns(1)
	return db, nil
}

func (st *StateDB) Close() error {
	st.stmtCache.Clear()
	return nil
}

func (st *StateDB) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	stmt, err := st.stmtCache.PrepareContext(ctx, queryGet)
	if err != nil {
		return nil, false, err
	}

	var value []byte
	if err := stmt.QueryRowContext(ctx, string(key)).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return value, true, nil
}

func (st *StateDB) Put(ctx context.Context, key, value []byte) error {
	stmt, err := st.stmtCache.PrepareContext(ctx, queryPut)
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, string(key), value); err != nil {
		return err
	}

	return nil
}

// WriteBatch writes the batch in a single sql transaction.
func (st *StateDB) WriteBatch(ctx context.Context, batch *Batch) (err error) {
	if batch.Len() == 0 {
		return nil
	}

	tx, err := st.stmtCache.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := st.stmtCache.TxStmt(ctx, tx, queryPut)
	if err != nil {
		return err
	}

	batch.Range(func(k string, v []byte) {
		if err != nil {
			return
		}
		_, err = stmt.ExecContext(ctx, k, v)
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}
