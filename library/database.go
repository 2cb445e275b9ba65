package library

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// TokenKey is the single durable slot holding the raw session token.
const TokenKey = "token"

// ErrSealed is returned when a sealed token is read without a passphrase.
var ErrSealed = errors.New("stored token is sealed; set storage.passphrase to read it")

// Database is the client's durable storage: one keyed slot for the session
// token plus schema metadata. Records themselves live on the backend.
type Database struct {
	db     *sql.DB
	sealer *sealer

	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares the slot statements. A non-empty passphrase seals
// the token at rest.
func NewDatabase(dbPath, passphrase string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		database.Close()
		return nil, err
	}
	if passphrase != "" {
		salt, err := database.sealSalt()
		if err != nil {
			database.Close()
			return nil, err
		}
		database.sealer = newSealer(passphrase, salt)
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	for _, stmt := range []*sql.Stmt{d.getStmt, d.putStmt, d.deleteStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS storage (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// SchemaVersion reports the version recorded in the meta table.
func (d *Database) SchemaVersion() (int, error) {
	var v int
	if err := d.db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.getStmt, err = d.db.Prepare(`SELECT value FROM storage WHERE key=?`); err != nil {
		return err
	}
	if d.putStmt, err = d.db.Prepare(`INSERT INTO storage(key,value) VALUES(?,?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP`); err != nil {
		return err
	}
	if d.deleteStmt, err = d.db.Prepare(`DELETE FROM storage WHERE key=?`); err != nil {
		return err
	}
	return nil
}

// sealSalt returns the argon2 salt, creating it on first use.
func (d *Database) sealSalt() ([]byte, error) {
	var encoded string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key='seal_salt'`).Scan(&encoded)
	if err == nil {
		return base64.StdEncoding.DecodeString(encoded)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	if _, err := d.db.Exec(`INSERT INTO meta(key,value) VALUES('seal_salt',?)`, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("store seal salt: %w", err)
	}
	return salt, nil
}

// ---------------------------------------------------------------------------
// Token slot
// ---------------------------------------------------------------------------

// LoadToken returns the persisted token, or "" when none is stored.
func (d *Database) LoadToken() (string, error) {
	var value string
	err := d.getStmt.QueryRow(TokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	if !isSealed(value) {
		return value, nil
	}
	if d.sealer == nil {
		return "", ErrSealed
	}
	return d.sealer.open(value)
}

// SaveToken replaces the persisted token.
func (d *Database) SaveToken(token string) error {
	value := token
	if d.sealer != nil {
		sealed, err := d.sealer.seal(token)
		if err != nil {
			return err
		}
		value = sealed
	}
	if _, err := d.putStmt.Exec(TokenKey, value); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// ClearToken removes the persisted token. Clearing an empty slot is not an error.
func (d *Database) ClearToken() error {
	if _, err := d.deleteStmt.Exec(TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
