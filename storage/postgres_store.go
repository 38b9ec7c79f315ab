package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"housing-stats/dataset"
	"housing-stats/models"
	"housing-stats/utils"
)

// statsColumns are the insert columns of housing_stats, in placeholder order.
var statsColumns = append(append([]string{"data_date", "data_type", "region"}, models.FieldColumns[:]...), "batch_id")

const insertBatchSize = 400

// PostgresStore persists daily statistics to the housing_stats table.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

var (
	_ SnapshotWriter = (*PostgresStore)(nil)
	_ DailyWriter    = (*PostgresStore)(nil)
)

// NewPostgresStore opens a connection to PostgreSQL, waits for it to answer,
// runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres: open: %v", models.ErrStoreFailed, err)
	}

	if err := retry.Do(ctx, "postgres-ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: postgres: %v", models.ErrStoreFailed, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := RunMigrations(dsn); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: postgres: migrate: %v", models.ErrStoreFailed, err)
	}

	return &PostgresStore{db: db, logger: logger.WithComponent("postgres")}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// WriteSnapshot replaces, per kind, the rows stored for the snapshot date.
// All kinds are written in one transaction.
func (s *PostgresStore) WriteSnapshot(ctx context.Context, snap *models.Snapshot, batch uuid.UUID) error {
	date := snap.Date.Format("2006-01-02")
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, kind := range snap.Kinds() {
			res, err := tx.ExecContext(ctx,
				`DELETE FROM housing_stats WHERE data_date = $1 AND data_type = $2`,
				date, kind.String())
			if err != nil {
				return fmt.Errorf("clear %s %s: %w", date, kind, err)
			}
			cleared, _ := res.RowsAffected()
			s.logger.Debug("Cleared %d old rows for %s %s", cleared, date, kind)

			rows := make([][]any, 0, len(snap.Sections[kind]))
			for _, r := range snap.Sections[kind] {
				row := []any{date, kind.String(), r.District.String()}
				for _, v := range r.Values {
					row = append(row, v)
				}
				rows = append(rows, append(row, batch.String()))
			}
			if err := insertRows(ctx, tx, rows); err != nil {
				return fmt.Errorf("insert %s %s: %w", date, kind, err)
			}
			s.logger.Info("Stored %d rows for %s %s", len(rows), date, kind)
		}
		return nil
	})
}

// WriteDaily replaces every row in the table's date range with the table's records.
func (s *PostgresStore) WriteDaily(ctx context.Context, t *dataset.DailyTable, batch uuid.UUID) error {
	from := t.Date(0).Format("2006-01-02")
	to := t.Date(t.Days() - 1).Format("2006-01-02")

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM housing_stats WHERE data_date BETWEEN $1 AND $2`, from, to); err != nil {
			return fmt.Errorf("clear %s..%s: %w", from, to, err)
		}

		records := t.Records()
		rows := make([][]any, 0, len(records))
		for _, r := range records {
			row := []any{r.Date.Format("2006-01-02"), r.Kind.String(), r.District.String()}
			for _, v := range r.Values {
				row = append(row, v)
			}
			rows = append(rows, append(row, batch.String()))
		}
		if err := insertRows(ctx, tx, rows); err != nil {
			return err
		}
		s.logger.Info("Stored %d daily rows for %s..%s", len(rows), from, to)
		return nil
	})
}

// FetchDaily reads back every daily row of a calendar year.
func (s *PostgresStore) FetchDaily(ctx context.Context, year int) ([]models.DailyRecord, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.db.QueryContext(ctx, `
		SELECT data_date, data_type, region, `+strings.Join(models.FieldColumns[:], ", ")+`
		FROM housing_stats
		WHERE data_date >= $1 AND data_date < $2
		ORDER BY data_date, region, data_type
	`, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("%w: postgres: fetch daily: %v", models.ErrStoreFailed, err)
	}
	defer rows.Close()

	var out []models.DailyRecord
	for rows.Next() {
		var (
			date         time.Time
			kind, region string
			vals         [models.FieldCount]decimal.Decimal
		)
		dest := []any{&date, &kind, &region}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: postgres: scan row: %v", models.ErrStoreFailed, err)
		}

		rec, err := dailyRecord(date, kind, region, vals)
		if err != nil {
			return nil, fmt.Errorf("%w: postgres: %v", models.ErrStoreFailed, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: postgres: fetch daily: %v", models.ErrStoreFailed, err)
	}
	return out, nil
}

func dailyRecord(date time.Time, kind, region string, vals [models.FieldCount]decimal.Decimal) (models.DailyRecord, error) {
	k, err := models.ParseKind(kind)
	if err != nil {
		return models.DailyRecord{}, err
	}
	d, err := models.ParseDistrict(region)
	if err != nil {
		return models.DailyRecord{}, err
	}
	rec := models.DailyRecord{
		Date:     time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		District: d,
		Kind:     k,
	}
	for i, v := range vals {
		rec.Values[i] = v.IntPart()
	}
	return rec, nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: postgres: begin: %v", models.ErrStoreFailed, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Rollback failed: %v", rbErr)
		} else {
			s.logger.Warn("Transaction rolled back: %v", err)
		}
		return fmt.Errorf("%w: postgres: %v", models.ErrStoreFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: postgres: commit: %v", models.ErrStoreFailed, err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, rows [][]any) error {
	for i := 0; i < len(rows); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[i:end]

		args := make([]any, 0, len(batch)*len(statsColumns))
		for _, r := range batch {
			args = append(args, r...)
		}
		query := fmt.Sprintf(`INSERT INTO housing_stats (%s) VALUES %s`,
			strings.Join(statsColumns, ", "), valuesClause(len(batch), len(statsColumns)))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// valuesClause renders "($1,$2),($3,$4)" style placeholders.
func valuesClause(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
