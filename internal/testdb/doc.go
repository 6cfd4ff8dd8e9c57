// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database.
//
// Tests obtain a connection with GetTestDBWithT, which skips the test when
// DATABASE_URL is unset and applies the embedded migrations once per
// process. Each test then runs inside WithTx, whose transaction is always
// rolled back, so tests can run in parallel without cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        userID := testdb.MustInsertUser(t, tx, "someone@example.com")
//	        ...
//	    })
//	}
package testdb
