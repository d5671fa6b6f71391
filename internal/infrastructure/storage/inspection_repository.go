package storage

import (
	"context"
	"database/sql"
	"fmt"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// InspectionRepository SQLite-хранилище проверок
type InspectionRepository struct {
	db *sql.DB
}

func (r *InspectionRepository) Create(ctx context.Context, insp *entity.Inspection) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO inspections (timestamp, helmet, vest, goggles, mask, compliant, image_filename, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(insp.Timestamp),
		boolToInt(insp.Helmet),
		boolToInt(insp.Vest),
		boolToInt(insp.Goggles),
		boolToInt(insp.Mask),
		boolToInt(insp.Compliant),
		insp.ImageFilename,
		insp.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inspection: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inspection id: %w", err)
	}
	insp.ID = id

	return nil
}

func (r *InspectionRepository) List(ctx context.Context, limit int) ([]entity.Inspection, error) {
	query := `
		SELECT id, timestamp, helmet, vest, goggles, mask, compliant, COALESCE(image_filename, ''), source
		FROM inspections
		ORDER BY timestamp DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inspections: %w", err)
	}
	defer rows.Close()

	inspections := make([]entity.Inspection, 0)
	for rows.Next() {
		var (
			insp entity.Inspection
			ts   string
		)
		if err := rows.Scan(&insp.ID, &ts, &insp.Helmet, &insp.Vest, &insp.Goggles, &insp.Mask, &insp.Compliant, &insp.ImageFilename, &insp.Source); err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		if insp.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("bad timestamp for inspection %d: %w", insp.ID, err)
		}
		inspections = append(inspections, insp)
	}

	return inspections, rows.Err()
}

func (r *InspectionRepository) Stats(ctx context.Context) (total, compliant int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(compliant), 0) FROM inspections`).Scan(&total, &compliant)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count inspections: %w", err)
	}
	return total, compliant, nil
}

func (r *InspectionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inspections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *InspectionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inspections`); err != nil {
		return fmt.Errorf("failed to clear inspections: %w", err)
	}
	return nil
}

var _ port.InspectionRepository = (*InspectionRepository)(nil)
