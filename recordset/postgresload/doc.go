// Package postgresload materializes recordset.Set values from a PostgreSQL
// table and stores them back.
//
// The loader targets a document-style table with one record per row:
//
//	CREATE TABLE records (
//	    id       uuid PRIMARY KEY,
//	    model    text NOT NULL,
//	    position bigint NOT NULL,
//	    fields   jsonb NOT NULL
//	);
//
// Load selects the rows of one model in position order, decodes each fields
// document, and hands it to a caller-supplied HydrateFunc to build the
// records; Store writes a Set's current records back as rows. The in-memory
// query emulation itself never touches the database: this package is a
// collaborator at the edge, not a query backend.
//
// The loader works with pgxpool.Pool, sql.DB, or sqlx.DB connections through
// internal adapters, and supports optional logging, metrics, and tracing via
// the recordset observability interfaces.
package postgresload
