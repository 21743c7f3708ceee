package vehicle

import (
	"context"

	"backend-truckgps/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Vehicle) (Vehicle, error) {
	input.ID = uuid.NewString()
	if input.Type == "" {
		input.Type = "truck"
	}
	if input.AxleCount == 0 {
		input.AxleCount = 2
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO vehicles (id, owner_id, name, type, height_m, width_m, length_m, weight_t, axle_count, hazardous_materials, hazardous_material_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at
	`, input.ID, input.OwnerID, input.Name, input.Type, input.HeightM, input.WidthM,
		input.LengthM, input.WeightT, input.AxleCount, input.HazardousMaterials, input.HazardousMaterialType)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Vehicle{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID string) (Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, name, type, height_m, width_m, length_m, weight_t, axle_count, hazardous_materials, COALESCE(hazardous_material_type,''), created_at
		FROM vehicles WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	var v Vehicle
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Type, &v.HeightM, &v.WidthM, &v.LengthM, &v.WeightT, &v.AxleCount, &v.HazardousMaterials, &v.HazardousMaterialType, &v.CreatedAt); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, name, type, height_m, width_m, length_m, weight_t, axle_count, hazardous_materials, COALESCE(hazardous_material_type,''), created_at
		FROM vehicles WHERE owner_id=$1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Type, &v.HeightM, &v.WidthM, &v.LengthM, &v.WeightT, &v.AxleCount, &v.HazardousMaterials, &v.HazardousMaterialType, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (s *Service) Update(ctx context.Context, id, ownerID string, patch Vehicle) (Vehicle, error) {
	v, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return Vehicle{}, err
	}
	if patch.Name != "" {
		v.Name = patch.Name
	}
	if patch.Type != "" {
		v.Type = patch.Type
	}
	if patch.HeightM > 0 {
		v.HeightM = patch.HeightM
	}
	if patch.WidthM > 0 {
		v.WidthM = patch.WidthM
	}
	if patch.LengthM > 0 {
		v.LengthM = patch.LengthM
	}
	if patch.WeightT > 0 {
		v.WeightT = patch.WeightT
	}
	if patch.AxleCount > 0 {
		v.AxleCount = patch.AxleCount
	}

	_, err = s.db.Exec(ctx, `
		UPDATE vehicles
		SET name=$3, type=$4, height_m=$5, width_m=$6, length_m=$7, weight_t=$8, axle_count=$9
		WHERE id=$1 AND owner_id=$2
	`, v.ID, v.OwnerID, v.Name, v.Type, v.HeightM, v.WidthM, v.LengthM, v.WeightT, v.AxleCount)
	if err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM vehicles WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return err
}
