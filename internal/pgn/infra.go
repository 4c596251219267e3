package pgn

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Vovarama1992/pgn-chatbot/internal/database"
)

type repo struct {
	db *database.DB
}

func NewRepo(db *database.DB) Repo {
	return &repo{db: db}
}

// SaveComplaint inserts c and sets c.ID.
func (r *repo) SaveComplaint(ctx context.Context, c *Complaint) error {
	args := []any{
		c.Name,
		c.DPI,
		c.Phone,
		c.Department,
		c.Type,
		c.Description,
		c.CreatedAt,
	}

	if r.db.Dialect == database.Postgres {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO denuncias (nombre, dpi, telefono, departamento, tipo, descripcion, fecha)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, args...).Scan(&c.ID)
		return errors.Wrap(err, "insert denuncia")
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO denuncias (nombre, dpi, telefono, departamento, tipo, descripcion, fecha)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return errors.Wrap(err, "insert denuncia")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "denuncia id")
	}
	c.ID = id
	return nil
}
