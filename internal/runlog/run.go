package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded run.
type Run struct {
	// ID is a UUIDv7 assigned by Record when empty.
	ID string `json:"id"`

	// Seq is the insertion order, assigned by the database.
	Seq int64 `json:"seq"`

	// RawSeed is the seed as supplied, nil when none was given.
	RawSeed *string `json:"raw_seed"`

	Seed       uint64 `json:"seed"`
	Provenance string `json:"provenance"`

	Configs    []string `json:"configs"`
	Overrides  []string `json:"overrides"`
	ConfigDump string   `json:"-"`

	DeviceMode string   `json:"device_mode"`
	DeviceKind string   `json:"device_kind,omitempty"`
	Devices    []string `json:"devices"`
	Addons     []string `json:"addons"`

	CreatedAt time.Time `json:"created_at"`
}

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Record appends r to the log and returns it with ID, Seq and CreatedAt
// filled in.
func (l *Log) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	lists := make([]string, 0, 4)
	for _, list := range [][]string{r.Configs, r.Overrides, r.Devices, r.Addons} {
		s, err := marshalList(list)
		if err != nil {
			return Run{}, fmt.Errorf("record run: %w", err)
		}
		lists = append(lists, s)
	}

	var raw sql.NullString
	if r.RawSeed != nil {
		raw = sql.NullString{String: *r.RawSeed, Valid: true}
	}

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, raw_seed, seed, provenance, configs, overrides, config_dump,
		 device_mode, device_kind, devices, addons, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		raw,
		strconv.FormatUint(r.Seed, 10),
		r.Provenance,
		lists[0],
		lists[1],
		r.ConfigDump,
		r.DeviceMode,
		r.DeviceKind,
		lists[2],
		lists[3],
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	if r.Seq, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("record run: last insert id: %w", err)
	}
	return r, nil
}

const selectRuns = `
	SELECT seq, id, raw_seed, seed, provenance, configs, overrides, config_dump,
	       device_mode, device_kind, devices, addons, created_at
	FROM runs`

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (l *Log) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRuns + ` ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID.
func (l *Log) Get(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(l.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var raw sql.NullString
	var seed, created string
	var configs, overrides, devs, addons string
	err := row.Scan(&r.Seq, &r.ID, &raw, &seed, &r.Provenance, &configs, &overrides, &r.ConfigDump,
		&r.DeviceMode, &r.DeviceKind, &devs, &addons, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if raw.Valid {
		s := raw.String
		r.RawSeed = &s
	}
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Run{}, fmt.Errorf("scan run %s: seed: %w", r.ID, err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Run{}, fmt.Errorf("scan run %s: created_at: %w", r.ID, err)
	}
	for _, f := range []struct {
		src string
		dst *[]string
	}{{configs, &r.Configs}, {overrides, &r.Overrides}, {devs, &r.Devices}, {addons, &r.Addons}} {
		if *f.dst, err = unmarshalList(f.src); err != nil {
			return Run{}, fmt.Errorf("scan run %s: %w", r.ID, err)
		}
	}
	return r, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(data), nil
}

func unmarshalList(data string) ([]string, error) {
	list := []string{}
	if data == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return list, nil
}
