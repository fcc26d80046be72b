//go:build integration

// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests get a migrated, empty database from GetTestDBWithT and can isolate
// their writes with WithTx, which rolls the transaction back when the test
// function returns:
//
//	func TestDeckStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        decks := postgres.NewPostgresDeckStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The database URL comes from FLASHDECK_TEST_DB_URL, falling back to
// DATABASE_URL. Tests are skipped when neither is set.
package testdb
