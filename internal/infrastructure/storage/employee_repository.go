package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// EmployeeRepository SQLite-хранилище сотрудников.
// Вектор лица хранится JSON-массивом в колонке face_encoding.
type EmployeeRepository struct {
	db *sql.DB
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	var encoding sql.NullString
	if e.HasFace() {
		data, err := sonic.Marshal(e.FaceEmbedding)
		if err != nil {
			return fmt.Errorf("failed to encode face embedding: %w", err)
		}
		encoding = sql.NullString{String: string(data), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (name, surname, registration_no, department, photo_filename, face_encoding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Surname, e.RegistrationNo, e.Department,
		sql.NullString{String: e.PhotoFilename, Valid: e.PhotoFilename != ""},
		encoding,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateRegistration
		}
		return fmt.Errorf("failed to insert employee: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get employee id: %w", err)
	}
	e.ID = id

	return nil
}

const employeeColumns = `id, name, surname, registration_no, department,
	COALESCE(photo_filename, ''), face_encoding, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var (
		e        entity.Employee
		encoding sql.NullString
		created  string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Surname, &e.RegistrationNo, &e.Department, &e.PhotoFilename, &encoding, &created); err != nil {
		return nil, err
	}

	if encoding.Valid && encoding.String != "" {
		if err := sonic.UnmarshalString(encoding.String, &e.FaceEmbedding); err != nil {
			return nil, fmt.Errorf("bad face embedding for employee %s: %w", e.RegistrationNo, err)
		}
	}

	ts, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("bad created_at for employee %s: %w", e.RegistrationNo, err)
	}
	e.CreatedAt = ts

	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]entity.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]entity.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}

	return employees, rows.Err()
}

func (r *EmployeeRepository) FindByName(ctx context.Context, name, surname string) (*entity.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE name = ? AND surname = ? ORDER BY id LIMIT 1`, name, surname)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return e, nil
}

var _ port.EmployeeRepository = (*EmployeeRepository)(nil)
