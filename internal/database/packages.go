package database

import (
	"context"
	"errors"
	"serwer-detekcji/internal/models"

	"github.com/jackc/pgx/v5"
)

const packageColumns = `
	id,
	name,
	price::text,
	period,
	description,
	COALESCE(features, '[]'::jsonb),
	camera_limit,
	max_registered_faces,
	created_at,
	updated_at
`

func scanPackage(row pgx.Row) (*models.Package, error) {
	var pkg models.Package
	err := row.Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Price,
		&pkg.Period,
		&pkg.Description,
		&pkg.Features,
		&pkg.CameraLimit,
		&pkg.MaxRegisteredFaces,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

func (q *Queries) ListPackages(ctx context.Context) ([]models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY price`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []models.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *pkg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if packages == nil {
		return []models.Package{}, nil
	}

	return packages, nil
}

func (q *Queries) GetPackageByID(ctx context.Context, id int64) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	return scanPackage(q.db.QueryRow(ctx, query, id))
}

// GetPackageByName dopasowuje nazwę pakietu bez rozróżniania wielkości
// liter ("standard" trafia w "Standard").
func (q *Queries) GetPackageByName(ctx context.Context, name string) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE name ILIKE $1`
	return scanPackage(q.db.QueryRow(ctx, query, name))
}
