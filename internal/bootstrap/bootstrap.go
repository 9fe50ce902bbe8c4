// Package bootstrap prepares the optional relational side store used for
// file uploads. The JSON collections need no setup; this only concerns the
// Postgres uploads table.
package bootstrap

import "database/sql"

const createUploadsTable = `
create table if not exists uploads (
	id uuid primary key default gen_random_uuid(),
	file_name text not null,
	file_type text,
	file_size bigint,
	storage_path text,
	created_at timestamptz not null default now()
);`

// EnsureUploadsTable creates the uploads table and the pgcrypto extension
// gen_random_uuid depends on. Both statements are idempotent.
func EnsureUploadsTable(db *sql.DB) error {
	if _, err := db.Exec(createUploadsTable); err != nil {
		return err
	}
	_, err := db.Exec(`create extension if not exists pgcrypto;`)
	return err
}
