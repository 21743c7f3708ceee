package shareroute

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"backend-truckgps/internal/db"
	"backend-truckgps/internal/shared/geo"
	"backend-truckgps/internal/shareid"
	"backend-truckgps/internal/stream"

	"github.com/jackc/pgx/v5"
)

const (
	defaultShareTTL         = 24 * time.Hour
	defaultDurationMinutes  = 60
	defaultFrequencySeconds = 30
	maxIDAttempts           = 10
)

type Service struct {
	db  db.Querier
	hub *stream.Hub

	now        func() time.Time
	genID      func() string
	permissive bool
}

type Option func(*Service)

// WithClock overrides the service clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides share id generation, mainly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.genID = gen }
}

// WithPermissiveStatus restores the original anything-to-anything status
// transitions, including out of completed and cancelled.
func WithPermissiveStatus() Option {
	return func(s *Service) { s.permissive = true }
}

func NewService(db db.Querier, hub *stream.Hub, opts ...Option) *Service {
	s := &Service{
		db:    db,
		hub:   hub,
		now:   time.Now,
		genID: shareid.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const routeColumns = `share_id, owner_id, route_info, status, privacy, vehicle_info,
		current_location, COALESCE(location_history, '[]'::jsonb),
		update_frequency_seconds, last_update_at,
		total_views, unique_viewers, last_viewed_at, created_at, expires_at`

func scanRoute(row pgx.Row) (SharedRoute, error) {
	var (
		r            SharedRoute
		routeInfo    []byte
		privacy      []byte
		vehicleInfo  []byte
		currentLoc   []byte
		history      []byte
		lastViewedAt *time.Time
	)
	err := row.Scan(&r.ShareID, &r.OwnerID, &routeInfo, &r.Status, &privacy, &vehicleInfo,
		&currentLoc, &history,
		&r.UpdateSettings.FrequencySeconds, &r.UpdateSettings.LastUpdateAt,
		&r.Stats.TotalViews, &r.Stats.UniqueViewers, &lastViewedAt, &r.CreatedAt, &r.ExpiresAt)
	if err != nil {
		return SharedRoute{}, err
	}

	if err := json.Unmarshal(routeInfo, &r.RouteInfo); err != nil {
		return SharedRoute{}, err
	}
	if err := json.Unmarshal(privacy, &r.Privacy); err != nil {
		return SharedRoute{}, err
	}
	if err := json.Unmarshal(vehicleInfo, &r.VehicleInfo); err != nil {
		return SharedRoute{}, err
	}
	if len(currentLoc) > 0 {
		if err := json.Unmarshal(currentLoc, &r.CurrentLocation); err != nil {
			return SharedRoute{}, err
		}
	}
	if err := json.Unmarshal(history, &r.LocationHistory); err != nil {
		return SharedRoute{}, err
	}
	r.Stats.LastViewedAt = lastViewedAt
	return r, nil
}

// Create validates, assigns a unique share id and persists a new record.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (SharedRoute, error) {
	if in.RouteInfo.Origin == nil || in.RouteInfo.Destination == nil {
		return SharedRoute{}, ErrIncompleteRoute
	}
	if err := validateCoordinates(in.RouteInfo.Origin.Coordinates); err != nil {
		return SharedRoute{}, err
	}
	if err := validateCoordinates(in.RouteInfo.Destination.Coordinates); err != nil {
		return SharedRoute{}, err
	}

	shareID, err := s.uniqueShareID(ctx)
	if err != nil {
		return SharedRoute{}, err
	}

	now := s.now()
	r := SharedRoute{
		ShareID:     shareID,
		OwnerID:     ownerID,
		RouteInfo:   in.RouteInfo,
		Status:      StatusActive,
		Privacy:     buildPrivacy(in.Privacy, now),
		VehicleInfo: in.VehicleInfo,
		UpdateSettings: UpdateSettings{
			FrequencySeconds: defaultFrequencySeconds,
			LastUpdateAt:     now,
		},
		LocationHistory: []HistoryPoint{},
		CreatedAt:       now,
		ExpiresAt:       now.Add(defaultShareTTL),
	}
	if in.UpdateSettings != nil && in.UpdateSettings.FrequencySeconds > 0 {
		r.UpdateSettings.FrequencySeconds = in.UpdateSettings.FrequencySeconds
	}

	r.RouteInfo.StartTime = now
	if r.RouteInfo.EstimatedArrival.IsZero() {
		minutes := r.RouteInfo.EstimatedDurationMin
		if minutes <= 0 {
			minutes = defaultDurationMinutes
		}
		r.RouteInfo.EstimatedArrival = now.Add(time.Duration(minutes * float64(time.Minute)))
	}
	if r.RouteInfo.EstimatedDistanceKm == 0 {
		o, d := r.RouteInfo.Origin.Coordinates, r.RouteInfo.Destination.Coordinates
		r.RouteInfo.EstimatedDistanceKm = geo.HaversineKm(o.Lat, o.Lng, d.Lat, d.Lng)
	}

	routeInfo, err := json.Marshal(r.RouteInfo)
	if err != nil {
		return SharedRoute{}, err
	}
	privacy, err := json.Marshal(r.Privacy)
	if err != nil {
		return SharedRoute{}, err
	}
	vehicleInfo, err := json.Marshal(r.VehicleInfo)
	if err != nil {
		return SharedRoute{}, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO shared_routes
			(share_id, owner_id, route_info, status, privacy, vehicle_info,
			 location_history, update_frequency_seconds, last_update_at, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,'[]'::jsonb,$7,$8,$9,$10)
	`, r.ShareID, r.OwnerID, routeInfo, r.Status, privacy, vehicleInfo,
		r.UpdateSettings.FrequencySeconds, r.UpdateSettings.LastUpdateAt, r.CreatedAt, r.ExpiresAt)
	if err != nil {
		return SharedRoute{}, err
	}
	return r, nil
}

// uniqueShareID retries generation against existing ids. Expired rows still
// block reuse until the reaper removes them, keeping ids unique across all
// records.
func (s *Service) uniqueShareID(ctx context.Context) (string, error) {
	for attempts := 0; attempts < maxIDAttempts; attempts++ {
		id := s.genID()
		var exists bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM shared_routes WHERE share_id=$1)`, id,
		).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func buildPrivacy(in *PrivacyInput, now time.Time) Privacy {
	p := Privacy{
		ShowExactLocation: true,
		ShowSpeed:         false,
		ShowETA:           true,
		PublicAccess:      false,
		AllowedViewers:    []AllowedViewer{},
	}
	if in == nil {
		return p
	}
	if in.ShowExactLocation != nil {
		p.ShowExactLocation = *in.ShowExactLocation
	}
	if in.ShowSpeed != nil {
		p.ShowSpeed = *in.ShowSpeed
	}
	if in.ShowETA != nil {
		p.ShowETA = *in.ShowETA
	}
	if in.PublicAccess != nil {
		p.PublicAccess = *in.PublicAccess
	}
	if in.AllowedViewers != nil {
		for _, v := range *in.AllowedViewers {
			v.Email = strings.ToLower(v.Email)
			if v.AddedAt.IsZero() {
				v.AddedAt = now
			}
			p.AllowedViewers = append(p.AllowedViewers, v)
		}
	}
	return p
}

// GetByShareID returns a live record; expired records are unreachable.
func (s *Service) GetByShareID(ctx context.Context, shareID string) (SharedRoute, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+routeColumns+`
		FROM shared_routes
		WHERE share_id=$1 AND expires_at > $2
	`, shareID, s.now())
	r, err := scanRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SharedRoute{}, ErrRouteNotFound
	}
	return r, err
}

// ListByOwner returns the owner's records, newest first, capped at 20.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, status Status) ([]SharedRoute, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = s.db.Query(ctx, `
			SELECT `+routeColumns+`
			FROM shared_routes
			WHERE owner_id=$1 AND expires_at > $2 AND status=$3
			ORDER BY created_at DESC
			LIMIT 20
		`, ownerID, s.now(), status)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT `+routeColumns+`
			FROM shared_routes
			WHERE owner_id=$1 AND expires_at > $2
			ORDER BY created_at DESC
			LIMIT 20
		`, ownerID, s.now())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []SharedRoute
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// UpdateLocation applies one sample to the owner's active record. The replace,
// append and trim happen in a single statement so concurrent pushes from two
// owner devices cannot lose updates.
func (s *Service) UpdateLocation(ctx context.Context, shareID, ownerID string, upd LocationUpdate) (SharedRoute, error) {
	if err := validateUpdate(upd); err != nil {
		return SharedRoute{}, err
	}

	now := s.now()
	current, err := json.Marshal(LocationPoint{
		Coordinates: *upd.Coordinates,
		Timestamp:   now,
		SpeedKmh:    upd.SpeedKmh,
		HeadingDeg:  upd.HeadingDeg,
	})
	if err != nil {
		return SharedRoute{}, err
	}
	sample, err := json.Marshal(HistoryPoint{
		Coordinates: *upd.Coordinates,
		Timestamp:   now,
		SpeedKmh:    upd.SpeedKmh,
	})
	if err != nil {
		return SharedRoute{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE shared_routes
		SET current_location = $4,
		    location_history = CASE
		        WHEN jsonb_array_length(COALESCE(location_history,'[]'::jsonb)) >= 50
		        THEN (COALESCE(location_history,'[]'::jsonb) - 0) || $5
		        ELSE COALESCE(location_history,'[]'::jsonb) || $5
		    END,
		    last_update_at = $6
		WHERE share_id=$1 AND owner_id=$2 AND status='active' AND expires_at > $3
		RETURNING `+routeColumns, shareID, ownerID, now, current, sample, now)
	r, err := scanRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SharedRoute{}, ErrRouteNotActive
	}
	if err != nil {
		return SharedRoute{}, err
	}

	if s.hub != nil {
		payload, _ := json.Marshal(r.CurrentLocation)
		s.hub.Broadcast(shareID, payload)
	}
	return r, nil
}

// SetStatus overwrites the record status. Unless the service runs permissive,
// completed and cancelled are final.
func (s *Service) SetStatus(ctx context.Context, shareID, ownerID string, status Status) (SharedRoute, error) {
	if !status.Valid() {
		return SharedRoute{}, ErrInvalidStatus
	}

	now := s.now()
	var current Status
	err := s.db.QueryRow(ctx, `
		SELECT status FROM shared_routes
		WHERE share_id=$1 AND owner_id=$2 AND expires_at > $3
	`, shareID, ownerID, now).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return SharedRoute{}, ErrRouteNotFound
	}
	if err != nil {
		return SharedRoute{}, err
	}
	if !s.permissive && current.Terminal() && status != current {
		return SharedRoute{}, ErrStatusFinal
	}

	row := s.db.QueryRow(ctx, `
		UPDATE shared_routes
		SET status=$4
		WHERE share_id=$1 AND owner_id=$2 AND expires_at > $3
		RETURNING `+routeColumns, shareID, ownerID, now, status)
	r, err := scanRoute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SharedRoute{}, ErrRouteNotFound
	}
	return r, err
}

// SetPrivacy applies a partial privacy update; absent fields are untouched.
func (s *Service) SetPrivacy(ctx context.Context, shareID, ownerID string, patch PrivacyInput) (Privacy, error) {
	now := s.now()
	p, err := s.ownerPrivacy(ctx, shareID, ownerID, now)
	if err != nil {
		return Privacy{}, err
	}

	if patch.ShowExactLocation != nil {
		p.ShowExactLocation = *patch.ShowExactLocation
	}
	if patch.ShowSpeed != nil {
		p.ShowSpeed = *patch.ShowSpeed
	}
	if patch.ShowETA != nil {
		p.ShowETA = *patch.ShowETA
	}
	if patch.PublicAccess != nil {
		p.PublicAccess = *patch.PublicAccess
	}
	if patch.AllowedViewers != nil {
		p.AllowedViewers = []AllowedViewer{}
		for _, v := range *patch.AllowedViewers {
			v.Email = strings.ToLower(v.Email)
			if v.AddedAt.IsZero() {
				v.AddedAt = now
			}
			p.AllowedViewers = append(p.AllowedViewers, v)
		}
	}

	if err := s.writePrivacy(ctx, shareID, ownerID, now, p); err != nil {
		return Privacy{}, err
	}
	return p, nil
}

// AddViewer appends a contact to the allow-list. Contacts containing "@" are
// treated as emails (stored lowercase), anything else as a phone number.
func (s *Service) AddViewer(ctx context.Context, shareID, ownerID, contact, name string) ([]AllowedViewer, error) {
	if contact == "" {
		return nil, ErrContactRequired
	}

	now := s.now()
	p, err := s.ownerPrivacy(ctx, shareID, ownerID, now)
	if err != nil {
		return nil, err
	}

	viewer := AllowedViewer{Name: name, AddedAt: now}
	if strings.Contains(contact, "@") {
		viewer.Email = strings.ToLower(contact)
	} else {
		viewer.Phone = contact
	}
	if viewer.Name == "" {
		viewer.Name = contact
	}

	for _, v := range p.AllowedViewers {
		if viewer.Email != "" && strings.EqualFold(v.Email, viewer.Email) {
			return nil, ErrDuplicateViewer
		}
		if viewer.Phone != "" && v.Phone == viewer.Phone {
			return nil, ErrDuplicateViewer
		}
	}
	p.AllowedViewers = append(p.AllowedViewers, viewer)

	if err := s.writePrivacy(ctx, shareID, ownerID, now, p); err != nil {
		return nil, err
	}
	return p.AllowedViewers, nil
}

func (s *Service) ownerPrivacy(ctx context.Context, shareID, ownerID string, now time.Time) (Privacy, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT privacy FROM shared_routes
		WHERE share_id=$1 AND owner_id=$2 AND expires_at > $3
	`, shareID, ownerID, now).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Privacy{}, ErrRouteNotFound
	}
	if err != nil {
		return Privacy{}, err
	}

	var p Privacy
	if err := json.Unmarshal(raw, &p); err != nil {
		return Privacy{}, err
	}
	return p, nil
}

func (s *Service) writePrivacy(ctx context.Context, shareID, ownerID string, now time.Time, p Privacy) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE shared_routes SET privacy=$4
		WHERE share_id=$1 AND owner_id=$2 AND expires_at > $3
	`, shareID, ownerID, now, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// Delete removes the owner's record.
func (s *Service) Delete(ctx context.Context, shareID, ownerID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM shared_routes
		WHERE share_id=$1 AND owner_id=$2 AND expires_at > $3
	`, shareID, ownerID, s.now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// RecordView bumps view counters atomically. uniqueViewers counts views that
// carry a contact; it is a coarse approximation, not deduplication.
func (s *Service) RecordView(ctx context.Context, shareID, contact string) error {
	uniqueInc := 0
	if contact != "" {
		uniqueInc = 1
	}
	_, err := s.db.Exec(ctx, `
		UPDATE shared_routes
		SET total_views = total_views + 1,
		    unique_viewers = unique_viewers + $2,
		    last_viewed_at = $3
		WHERE share_id=$1
	`, shareID, uniqueInc, s.now())
	return err
}

// Reap physically deletes expired records. Reads already exclude them, so the
// sweep only reclaims storage.
func (s *Service) Reap(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM shared_routes WHERE expires_at <= $1
	`, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
