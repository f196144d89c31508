package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/content"
)

const mediaColumns = `id, profile_id, kind, filename, url, mime_type, width, height, size, created`

type MediaFileRepository struct {
	db *sql.DB
}

func NewMediaFileRepository(db *sql.DB) *MediaFileRepository {
	return &MediaFileRepository{db: db}
}

func (r *MediaFileRepository) FindByID(ctx context.Context, id string) (*content.MediaFile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media_files WHERE id = ?`, id)
	file, err := scanMediaFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return file, err
}

func (r *MediaFileRepository) FindByProfile(ctx context.Context, profileID string) ([]*content.MediaFile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+mediaColumns+` FROM media_files WHERE profile_id = ? ORDER BY created DESC, id DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media files: %w", err)
	}
	defer rows.Close()

	files := []*content.MediaFile{}
	for rows.Next() {
		file, err := scanMediaFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return files, nil
}

func (r *MediaFileRepository) Store(ctx context.Context, file *content.MediaFile) error {
	if file.Created.IsZero() {
		file.Created = time.Now().UTC()
	}
	query := `INSERT INTO media_files (` + mediaColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, file.ID, file.ProfileID, string(file.Kind), file.Filename,
		file.URL, file.MimeType, file.Width, file.Height, file.Size, formatTime(file.Created))
	if err != nil {
		return fmt.Errorf("failed to insert media file: %w", err)
	}
	return nil
}

func scanMediaFile(row rowScanner) (*content.MediaFile, error) {
	var file content.MediaFile
	var kind, created string
	var width, height sql.NullInt64

	err := row.Scan(&file.ID, &file.ProfileID, &kind, &file.Filename, &file.URL,
		&file.MimeType, &width, &height, &file.Size, &created)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media file: %w", err)
	}

	file.Kind = content.MediaKind(kind)
	file.Width = int(width.Int64)
	file.Height = int(height.Int64)
	if file.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	return &file, nil
}
