package postgresql

import (
	"context"
	"fmt"

	"github.com/guardpost/guardpost-backend/internal/pkg/database"
)

type CompanyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// ListCompanyIDs returns every company that still has shifts on record.
func (c *CompanyRepository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `
		SELECT c.id
		FROM companies c
		WHERE c.deleted_at IS NULL
		  AND EXISTS (SELECT 1 FROM shifts s WHERE s.company_id = c.id)
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return ids, nil
}
