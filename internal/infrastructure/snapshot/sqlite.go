package snapshot

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pureskin/dupefinder/internal/domain"
)

// Store persists the built product index in SQLite so a restart can skip
// re-encoding the whole catalog. One snapshot per database file.
type Store struct {
	db     *sql.DB
	model  string
	logger zerolog.Logger
}

// NewStore opens (or creates) the snapshot database. The model tag is the
// configured provider's; snapshots built with a different model are refused
// at load time.
func NewStore(dbPath, model string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	store := &Store{
		db:     db,
		model:  model,
		logger: logger,
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	return store, nil
}

// initSchema creates the snapshot tables if they don't exist
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		model_tag TEXT NOT NULL,
		dimension INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS snapshot_products (
		position INTEGER PRIMARY KEY,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		brand TEXT,
		ingredients TEXT,
		price REAL,
		rating REAL,
		reviews INTEGER,
		highlights TEXT,
		primary_category TEXT,
		secondary_category TEXT,
		embedding BLOB NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save rewrites the snapshot with the given index in one transaction
func (s *Store) Save(ctx context.Context, idx *domain.ProductIndex) error {
	if idx.Len() == 0 {
		return domain.ErrEmptyCatalog
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace any previous snapshot wholesale
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_meta`); err != nil {
		return fmt.Errorf("failed to clear meta: %w", err)
	}

	dimension := len(idx.Vectors[0])
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, model_tag, dimension) VALUES (1, ?, ?)`,
		idx.ModelTag, dimension)
	if err != nil {
		return fmt.Errorf("failed to write meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_products
			(position, product_id, name, brand, ingredients, price, rating, reviews,
			 highlights, primary_category, secondary_category, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, product := range idx.Products {
		_, err := stmt.ExecContext(ctx,
			i,
			product.ID,
			product.Name,
			product.Brand,
			product.Ingredients,
			product.Price,
			product.Rating,
			product.Reviews,
			product.Highlights,
			product.PrimaryCategory,
			product.SecondaryCategory,
			serializeEmbedding(idx.Vectors[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Info().
		Int("products", idx.Len()).
		Str("model", idx.ModelTag).
		Msg("Index snapshot saved")

	return nil
}

// Load restores the persisted index in its original row order. Returns
// ErrSnapshotNotFound when no snapshot exists and ErrSnapshotModelMismatch
// when the stored model tag differs from the configured one.
func (s *Store) Load(ctx context.Context) (*domain.ProductIndex, error) {
	var modelTag string
	var dimension int
	err := s.db.QueryRowContext(ctx,
		`SELECT model_tag, dimension FROM snapshot_meta WHERE id = 1`,
	).Scan(&modelTag, &dimension)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}

	if modelTag != s.model {
		return nil, fmt.Errorf("%w: snapshot %q, configured %q",
			domain.ErrSnapshotModelMismatch, modelTag, s.model)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, brand, ingredients, price, rating, reviews,
		       highlights, primary_category, secondary_category, embedding
		FROM snapshot_products
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	var vectors [][]float32
	for rows.Next() {
		var product domain.Product
		var blob []byte
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Brand,
			&product.Ingredients,
			&product.Price,
			&product.Rating,
			&product.Reviews,
			&product.Highlights,
			&product.PrimaryCategory,
			&product.SecondaryCategory,
			&blob,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		vector := deserializeEmbedding(blob)
		if vector == nil || len(vector) != dimension {
			return nil, fmt.Errorf("corrupt snapshot: bad embedding for product %q", product.ID)
		}

		products = append(products, product)
		vectors = append(vectors, vector)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	if len(products) == 0 {
		return nil, domain.ErrSnapshotNotFound
	}

	idx, err := domain.NewProductIndex(products, vectors, modelTag)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("products", idx.Len()).
		Str("model", modelTag).
		Msg("Index snapshot loaded")

	return idx, nil
}

// Close closes the snapshot database
func (s *Store) Close() error {
	return s.db.Close()
}

// serializeEmbedding converts a float32 slice to a binary BLOB for storage.
// Uses little-endian encoding for consistency across platforms.
func serializeEmbedding(embedding []float32) []byte {
	blob := make([]byte, len(embedding)*4)
	for i, val := range embedding {
		bits := math.Float32bits(val)
		binary.LittleEndian.PutUint32(blob[i*4:(i+1)*4], bits)
	}
	return blob
}

// deserializeEmbedding converts a binary BLOB back to a float32 slice.
// Returns nil if the data is malformed (not a multiple of 4 bytes).
func deserializeEmbedding(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}

	embedding := make([]float32, len(data)/4)
	for i := range embedding {
		bits := binary.LittleEndian.Uint32(data[i*4 : (i+1)*4])
		embedding[i] = math.Float32frombits(bits)
	}
	return embedding
}
