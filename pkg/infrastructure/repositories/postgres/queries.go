package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
)

const foreignKeyViolation = "23503"

// dbtx is satisfied by both the pool and a transaction
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db dbtx
}

var _ repositories.Tx = queries{}

func (q queries) GetEntry(ctx context.Context, id int64) (*entities.Entry, error) {
	query := `SELECT id, work_order_id, handing, data, created_at FROM entries WHERE id = $1`

	var (
		entry entities.Entry
		data  []byte
	)
	err := q.db.QueryRow(ctx, query, id).Scan(&entry.ID, &entry.WorkOrderID, &entry.Handing, &data, &entry.CreatedAt)
	if err != nil {
		return nil, notFound(err, "entry %d", id)
	}
	if err := json.Unmarshal(data, &entry.Data); err != nil {
		return nil, fmt.Errorf("failed to decode entry %d data: %w", id, err)
	}
	return &entry, nil
}

func (q queries) LockEntryHanding(ctx context.Context, id int64) (entities.Handing, error) {
	var handing entities.Handing
	err := q.db.QueryRow(ctx, `SELECT handing FROM entries WHERE id = $1 FOR UPDATE`, id).Scan(&handing)
	if err != nil {
		return "", notFound(err, "entry %d", id)
	}
	return handing, nil
}

func (q queries) CreateEntry(ctx context.Context, entry *entities.Entry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("failed to encode entry data: %w", err)
	}

	query := `
		INSERT INTO entries (work_order_id, handing, data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING id, created_at
	`
	err = q.db.QueryRow(ctx, query, entry.WorkOrderID, string(entry.Handing), string(data)).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("work order %d: %w", entry.WorkOrderID, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (q queries) UpdateEntry(ctx context.Context, id int64, handing entities.Handing, data entities.EntryData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode entry data: %w", err)
	}

	tag, err := q.db.Exec(ctx, `UPDATE entries SET handing = $1, data = $2::jsonb WHERE id = $3`, string(handing), string(encoded), id)
	if err != nil {
		return fmt.Errorf("failed to update entry %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (q queries) DeleteEntry(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (q queries) GetDoor(ctx context.Context, id int64) (*entities.Door, error) {
	row := q.db.QueryRow(ctx, `SELECT id, entry_id, leaf, data FROM doors WHERE id = $1`, id)
	door, err := scanDoor(row)
	if err != nil {
		return nil, notFound(err, "door %d", id)
	}
	return door, nil
}

func (q queries) GetLeaf(ctx context.Context, entryID int64, leaf entities.Leaf) (*entities.Door, error) {
	row := q.db.QueryRow(ctx, `SELECT id, entry_id, leaf, data FROM doors WHERE entry_id = $1 AND leaf = $2`, entryID, string(leaf))
	door, err := scanDoor(row)
	if err != nil {
		return nil, notFound(err, "entry %d leaf %s", entryID, leaf)
	}
	return door, nil
}

func (q queries) ListDoors(ctx context.Context, entryID int64) ([]*entities.Door, error) {
	rows, err := q.db.Query(ctx, `SELECT id, entry_id, leaf, data FROM doors WHERE entry_id = $1 ORDER BY id`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query doors: %w", err)
	}
	defer rows.Close()

	var doors []*entities.Door
	for rows.Next() {
		door, err := scanDoor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan door: %w", err)
		}
		doors = append(doors, door)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doors: %w", err)
	}
	return doors, nil
}

func (q queries) GetDoorOpening(ctx context.Context, doorID int64) (*entities.DoorOpening, error) {
	query := `
		SELECT d.entry_id, d.data, e.data
		FROM doors d
		JOIN entries e ON d.entry_id = e.id
		WHERE d.id = $1
	`

	var (
		entryID             int64
		doorData, entryData []byte
	)
	if err := q.db.QueryRow(ctx, query, doorID).Scan(&entryID, &doorData, &entryData); err != nil {
		return nil, notFound(err, "door %d", doorID)
	}

	opening := &entities.DoorOpening{DoorID: doorID, EntryID: entryID}
	if err := json.Unmarshal(doorData, &opening.Door); err != nil {
		return nil, fmt.Errorf("failed to decode door %d data: %w", doorID, err)
	}
	if err := json.Unmarshal(entryData, &opening.Opening); err != nil {
		return nil, fmt.Errorf("failed to decode entry %d data: %w", entryID, err)
	}
	return opening, nil
}

func (q queries) InsertDoor(ctx context.Context, door *entities.Door) error {
	if !door.Leaf.Valid() {
		return fmt.Errorf("invalid leaf %q", door.Leaf)
	}
	data, err := json.Marshal(door.Data)
	if err != nil {
		return fmt.Errorf("failed to encode door data: %w", err)
	}

	query := `INSERT INTO doors (entry_id, leaf, data) VALUES ($1, $2, $3::jsonb) RETURNING id`
	if err := q.db.QueryRow(ctx, query, door.EntryID, string(door.Leaf), string(data)).Scan(&door.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("door references entry %d: %w", door.EntryID, repositories.ErrNotFound)
		}
		return fmt.Errorf("failed to insert door: %w", err)
	}
	return nil
}

func (q queries) DeleteLeaf(ctx context.Context, entryID int64, leaf entities.Leaf) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM doors WHERE entry_id = $1 AND leaf = $2`, entryID, string(leaf)); err != nil {
		return fmt.Errorf("failed to delete leaf %s of entry %d: %w", leaf, entryID, err)
	}
	return nil
}

func (q queries) DeleteDoor(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM doors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete door %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("door %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (q queries) ResolveParts(ctx context.Context, partTypes []string) (map[string]entities.CatalogPart, error) {
	parts := make(map[string]entities.CatalogPart, len(partTypes))
	if len(partTypes) == 0 {
		return parts, nil
	}

	query := `
		SELECT part_type, part_ly::text
		FROM door_parts
		WHERE door_id IS NULL AND part_type = ANY($1::text[])
		ORDER BY id
	`
	rows, err := q.db.Query(ctx, query, partTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog parts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			partType string
			partLy   *string
		)
		if err := rows.Scan(&partType, &partLy); err != nil {
			return nil, fmt.Errorf("failed to scan catalog part: %w", err)
		}
		if _, seen := parts[partType]; seen {
			continue
		}

		part := entities.CatalogPart{PartType: partType, DimensionMissing: partLy == nil}
		if partLy != nil {
			part.LengthAcrossWidth, err = decimal.NewFromString(*partLy)
			if err != nil {
				return nil, fmt.Errorf("catalog part %s has invalid part_ly %q: %w", partType, *partLy, err)
			}
		}
		parts[partType] = part
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog parts: %w", err)
	}
	return parts, nil
}

func scanDoor(row pgx.Row) (*entities.Door, error) {
	var (
		door entities.Door
		leaf string
		data []byte
	)
	if err := row.Scan(&door.ID, &door.EntryID, &leaf, &data); err != nil {
		return nil, err
	}
	door.Leaf = entities.Leaf(leaf)
	if err := json.Unmarshal(data, &door.Data); err != nil {
		return nil, fmt.Errorf("failed to decode door %d data: %w", door.ID, err)
	}
	return &door, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, repositories.ErrNotFound)...)
	}
	return fmt.Errorf("failed to query "+format+": %w", append(args, err)...)
}
