package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"dealer-assistant/internal/common/logger"
	"dealer-assistant/internal/models"
)

const sourcePostgres = "postgres"

// timestampLayout renders timestamp columns so that the date-prefix match
// used for "today" keeps working.
const timestampLayout = "2006-01-02T15:04:05"

// PostgresLoader reads every column of the leads and inquiries tables. Column
// order becomes key order and NULL columns are left out of the record.
type PostgresLoader struct {
	db             *sql.DB
	leadsTable     string
	inquiriesTable string
	maxRecords     int
	logger         logger.Logger
}

func NewPostgresLoader(db *sql.DB, leadsTable, inquiriesTable string, maxRecords int, log logger.Logger) *PostgresLoader {
	return &PostgresLoader{
		db:             db,
		leadsTable:     leadsTable,
		inquiriesTable: inquiriesTable,
		maxRecords:     maxRecords,
		logger:         log.With(map[string]interface{}{"loader": sourcePostgres}),
	}
}

func (l *PostgresLoader) Load(ctx context.Context) Datasets {
	return Datasets{
		Leads:     l.loadOne(ctx, KindLeads, l.leadsTable),
		Inquiries: l.loadOne(ctx, KindInquiries, l.inquiriesTable),
	}
}

func (l *PostgresLoader) loadOne(ctx context.Context, kind, table string) []models.Record {
	records, err := l.queryTable(ctx, table)
	if err != nil {
		logLoadFailure(l.logger, sourcePostgres, kind, err)
		return nil
	}
	logLoaded(l.logger, sourcePostgres, kind, len(records))
	return records
}

func (l *PostgresLoader) queryTable(ctx context.Context, table string) ([]models.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT $1", pq.QuoteIdentifier(table))

	rows, err := l.db.QueryContext(ctx, query, l.maxRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []models.Record
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(models.Record, 0, len(columns))
		for i, col := range columns {
			if text, ok := columnText(values[i]); ok {
				rec = append(rec, models.Field{Key: col, Value: text})
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func columnText(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case []byte:
		return string(val), true
	case string:
		return val, true
	case time.Time:
		return val.Format(timestampLayout), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return fmt.Sprint(val), true
	}
}
