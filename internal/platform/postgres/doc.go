// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package, the embedded schema
// migrations, and connection setup.
//
// Every store is constructed over a store.DBTX so it runs equally against
// a connection pool or a transaction.
package postgres
