package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/harvest-labs/agrolens-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.agrolens/data/agrolens.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".agrolens", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "agrolens.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DatasetStore returns a DatasetStore interface backed by this store.
func (s *Store) DatasetStore() driven.DatasetStore {
	return &datasetStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// ConversationStore returns a ConversationStore interface backed by this store.
func (s *Store) ConversationStore() driven.ConversationStore {
	return &conversationStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Dataset Store ====================

// datasetStore implements driven.DatasetStore.
type datasetStore struct {
	store *Store
}

var _ driven.DatasetStore = (*datasetStore)(nil)

// Save stores a new dataset.
func (s *datasetStore) Save(ctx context.Context, dataset domain.Dataset) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO datasets (id, name, file_type, source_location, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, dataset.ID, dataset.Name, string(dataset.FileType), dataset.SourceLocation,
		string(dataset.Status), dataset.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("dataset %s: %w", dataset.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("saving dataset: %w", err)
	}
	return nil
}

// Get retrieves a dataset by ID.
func (s *datasetStore) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, file_type, source_location, status, created_at
		FROM datasets WHERE id = ?
	`, id)
	return scanDataset(row)
}

// List returns all datasets in creation order.
func (s *datasetStore) List(ctx context.Context) ([]domain.Dataset, error) {
	return s.list(ctx, `
		SELECT id, name, file_type, source_location, status, created_at
		FROM datasets ORDER BY created_at, id
	`)
}

// ListByStatus returns datasets in the given lifecycle state.
func (s *datasetStore) ListByStatus(ctx context.Context, status domain.DatasetStatus) ([]domain.Dataset, error) {
	return s.list(ctx, `
		SELECT id, name, file_type, source_location, status, created_at
		FROM datasets WHERE status = ? ORDER BY created_at, id
	`, string(status))
}

func (s *datasetStore) list(ctx context.Context, query string, args ...any) ([]domain.Dataset, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var datasets []domain.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, *ds)
	}
	return datasets, rows.Err()
}

// UpdateStatus transitions a dataset's status, enforcing the lifecycle
// rules atomically.
func (s *datasetStore) UpdateStatus(ctx context.Context, id string, status domain.DatasetStatus) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, "SELECT status FROM datasets WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("dataset %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	if !domain.DatasetStatus(current).CanTransition(status) {
		return fmt.Errorf("dataset %s: %s -> %s: %w", id, current, status, domain.ErrInvalidTransition)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE datasets SET status = ? WHERE id = ?", string(status), id); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return tx.Commit()
}

// Delete removes a dataset record. Chunks cascade via the foreign key.
func (s *datasetStore) Delete(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("dataset %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (*domain.Dataset, error) {
	var ds domain.Dataset
	var fileType, status string
	var createdAt sql.NullTime
	if err := row.Scan(&ds.ID, &ds.Name, &fileType, &ds.SourceLocation, &status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	ds.FileType = domain.FileType(fileType)
	ds.Status = domain.DatasetStatus(status)
	if createdAt.Valid {
		ds.CreatedAt = createdAt.Time
	}
	return &ds, nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks stores chunks for a dataset in one transaction.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, dataset_id, content, position, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for chunk %s: %w", chunk.ID, err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DatasetID, chunk.Content,
			chunk.Position, embeddingBlob, string(metadataJSON), chunk.CreatedAt); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// GetChunk retrieves a specific chunk by ID.
func (s *chunkStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, dataset_id, content, position, embedding, metadata, created_at
		FROM chunks WHERE id = ?
	`, id)
	return scanChunk(row)
}

// GetChunks retrieves all chunks for a dataset, ordered by position.
func (s *chunkStore) GetChunks(ctx context.Context, datasetID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, dataset_id, content, position, embedding, metadata, created_at
		FROM chunks WHERE dataset_id = ? ORDER BY position
	`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	return chunks, rows.Err()
}

// DeleteByDataset removes all chunks for a dataset and returns their IDs.
func (s *chunkStore) DeleteByDataset(ctx context.Context, datasetID string) ([]string, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM chunks WHERE dataset_id = ?", datasetID)
	if err != nil {
		return nil, fmt.Errorf("listing chunk ids: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE dataset_id = ?", datasetID); err != nil {
		return nil, fmt.Errorf("deleting chunks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&chunk.ID, &chunk.DatasetID, &chunk.Content, &chunk.Position,
		&embeddingBlob, &metadataJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}
	return &chunk, nil
}

// ==================== Conversation Store ====================

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	store *Store
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// SaveConversation stores a new conversation.
func (s *conversationStore) SaveConversation(ctx context.Context, conv domain.Conversation) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, created_at) VALUES (?, ?, ?)
	`, conv.ID, conv.Title, conv.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("conversation %s: %w", conv.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *conversationStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, created_at FROM conversations WHERE id = ?
	`, id)

	var conv domain.Conversation
	var createdAt sql.NullTime
	if err := row.Scan(&conv.ID, &conv.Title, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	if createdAt.Valid {
		conv.CreatedAt = createdAt.Time
	}
	return &conv, nil
}

// ListConversations returns all conversations, newest first.
func (s *conversationStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, created_at FROM conversations ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		var createdAt sql.NullTime
		if err := rows.Scan(&conv.ID, &conv.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if createdAt.Valid {
			conv.CreatedAt = createdAt.Time
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// AppendMessage appends a message, assigning the next sequence number
// within the conversation.
func (s *conversationStore) AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM conversations WHERE id = ?", msg.ConversationID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking conversation: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("conversation %s: %w", msg.ConversationID, domain.ErrNotFound)
	}

	var seq int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq)+1, 0) FROM messages WHERE conversation_id = ?",
		msg.ConversationID).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("computing sequence: %w", err)
	}
	msg.Seq = seq

	metaJSON, err := json.Marshal(msg.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshalling meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, meta, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, string(msg.Role), msg.Content,
		string(metaJSON), msg.Seq, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessages returns a conversation's messages in creation order.
func (s *conversationStore) GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, meta, seq, created_at
		FROM messages WHERE conversation_id = ? ORDER BY created_at, seq
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role, metaJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content,
			&metaJSON, &msg.Seq, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.Role = domain.MessageRole(role)
		if err := json.Unmarshal([]byte(metaJSON), &msg.Meta); err != nil {
			return nil, fmt.Errorf("unmarshaling meta: %w", err)
		}
		if createdAt.Valid {
			msg.CreatedAt = createdAt.Time
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteConversation removes a conversation and its messages.
func (s *conversationStore) DeleteConversation(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ==================== Embedding encoding ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
