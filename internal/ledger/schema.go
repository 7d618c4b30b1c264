package ledger

// createMigrationsSQL is the DDL for the migrations bookkeeping table.
// migration_key is the application-supplied idempotency token; the unique
// constraint is the last-resort safety net against concurrent creation.
const createMigrationsSQL = `CREATE TABLE IF NOT EXISTS migrations (
    id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    migration_key  TEXT NOT NULL UNIQUE
)`

// createStatementsSQL is the DDL for the per-statement bookkeeping table.
// error_code holds the PostgreSQL SQLSTATE of a failed statement.
const createStatementsSQL = `CREATE TABLE IF NOT EXISTS migration_statements (
    id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    migration_id   BIGINT NOT NULL,
    position       INTEGER NOT NULL,
    sql_statement  TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'pending',
    error_code     TEXT,
    error_info     TEXT
)`

// foreignKeyExistsSQL checks the system catalog for any foreign-key
// constraint already present on migration_statements.
const foreignKeyExistsSQL = `SELECT EXISTS(
    SELECT 1 FROM pg_constraint
    WHERE conrelid = 'migration_statements'::regclass AND contype = 'f'
)`

// addForeignKeySQL links statements to their owning migration. Cascade
// delete means statements die with their migration.
const addForeignKeySQL = `ALTER TABLE migration_statements
    ADD CONSTRAINT migration_statements_migration_id_fkey
    FOREIGN KEY (migration_id) REFERENCES migrations (id) ON DELETE CASCADE`
