package user

import (
	"context"

	"backend-truckgps/internal/db"
)

// Profile holds the owner display fields exposed to viewers.
type Profile struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// Directory resolves user display fields at read time.
type Directory struct {
	db db.Querier
}

func NewDirectory(db db.Querier) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Lookup(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := d.db.QueryRow(ctx, `
		SELECT full_name, COALESCE(company,'')
		FROM users WHERE id=$1
	`, userID).Scan(&p.Name, &p.Company)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
