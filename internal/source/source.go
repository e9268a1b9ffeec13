// Package source adapts a database/sql query into draken's Source
// contract (spec.md §6's storage/decoder contract: "the only in-contract
// behavior is emits morsels of a fixed schema, then EOS").
//
// Grounded on the teacher's internal/database.DatabaseModule.ExecuteQuery
// (sql.Open, rows.Columns(), a dynamic valuePtrs/rows.Scan loop) but
// rewritten end to end: the teacher's version exists to run credential
// lists and SQL-injection payloads against a scanned host and collect
// map[string]interface{} rows for a vulnerability report; this package
// keeps only the connect-query-scan shape and replaces the map-of-rows
// result with typed columnar vectors, built incrementally one batch of
// rows at a time so a query of any size streams as a bounded sequence
// of morsels rather than materializing in memory up front.
package source

import (
	"database/sql"
	"reflect"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // sqlserver
	_ "github.com/go-sql-driver/mysql"   // mysql
	_ "github.com/lib/pq"                // postgres
	_ "github.com/mattn/go-sqlite3"      // sqlite3

	"draken/internal/errors"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// Config describes one query to stream. Driver must be a database/sql
// driver name registered by one of this package's blank imports
// ("mysql", "postgres", "sqlite3", "sqlserver").
type Config struct {
	Driver    string
	DSN       string
	Query     string
	BatchSize int // rows per emitted morsel; 0 defaults to 1024
}

// SQLSource streams a query's result set as a bounded sequence of
// morsels, satisfying internal/operator's Source interface
// (Next() (*morsel.Morsel, error)) by structural typing — this package
// does not import internal/operator, keeping the dependency one-way.
type SQLSource struct {
	cfg       Config
	db        *sql.DB
	rows      *sql.Rows
	columns   []string
	exhausted bool
}

// Open connects, runs cfg.Query, and prepares to stream its rows.
func Open(cfg Config) (*SQLSource, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1024
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidState, "opening source connection")
	}
	rows, err := db.Query(cfg.Query)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.InvalidState, "running source query")
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		db.Close()
		return nil, err
	}
	return &SQLSource{cfg: cfg, db: db, rows: rows, columns: cols}, nil
}

// Next scans up to cfg.BatchSize rows into one morsel. It returns
// (nil, nil) once the result set and every buffered row have been
// delivered — the EOS convention internal/operator.Source expects.
func (s *SQLSource) Next() (*morsel.Morsel, error) {
	if s.exhausted {
		return nil, nil
	}
	builders := make([]*columnBuilder, len(s.columns))
	for i := range builders {
		builders[i] = newColumnBuilder(s.cfg.BatchSize)
	}
	scanned := 0
	dest := make([]interface{}, len(s.columns))
	for i := range dest {
		dest[i] = new(interface{})
	}
	for scanned < s.cfg.BatchSize {
		if !s.rows.Next() {
			s.exhausted = true
			if err := s.rows.Err(); err != nil {
				return nil, err
			}
			break
		}
		if err := s.rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, d := range dest {
			val := *(d.(*interface{}))
			if err := builders[i].append(val); err != nil {
				return nil, err
			}
		}
		scanned++
	}
	if scanned == 0 {
		s.Close()
		return nil, nil
	}
	vecs := make([]vector.Vector, len(builders))
	for i, b := range builders {
		v, err := b.finish()
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return morsel.New(s.columns, vecs)
}

// Close releases the underlying rows and connection. Safe to call more
// than once.
func (s *SQLSource) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// columnBuilder accumulates one column's scanned values with lazy type
// resolution: until the first non-null value arrives the concrete Kind
// is unknown, so nulls seen first are counted and backfilled once a
// builder is finally chosen. Each batch gets a fresh columnBuilder,
// reusing the same lazy-resolution logic per morsel rather than across
// the whole query.
type columnBuilder struct {
	estimate  int
	pendingNulls int
	kind      reflect.Kind
	numInt    *vector.NumericBuilder[int64]
	numFloat  *vector.NumericBuilder[float64]
	boolB     *vector.BoolBuilder
	bytesB    *vector.BytesBuilder
	timeB     *vector.NumericBuilder[int64]
}

func newColumnBuilder(estimate int) *columnBuilder {
	return &columnBuilder{estimate: estimate}
}

func (c *columnBuilder) append(v interface{}) error {
	if v == nil {
		if c.kind == reflect.Invalid {
			c.pendingNulls++
			return nil
		}
		return c.appendNullToResolved()
	}
	if c.kind == reflect.Invalid {
		if err := c.resolve(v); err != nil {
			return err
		}
		for i := 0; i < c.pendingNulls; i++ {
			if err := c.appendNullToResolved(); err != nil {
				return err
			}
		}
		c.pendingNulls = 0
	}
	return c.appendValue(v)
}

func (c *columnBuilder) resolve(v interface{}) error {
	switch v.(type) {
	case int64, int32, int16, int8, int:
		c.kind = reflect.Int64
		c.numInt = vector.NewBuilderWithEstimate[int64](vector.KindInt64, c.estimate)
	case float64, float32:
		c.kind = reflect.Float64
		c.numFloat = vector.NewBuilderWithEstimate[float64](vector.KindFloat64, c.estimate)
	case bool:
		c.kind = reflect.Bool
		c.boolB = vector.NewBoolBuilderWithEstimate(c.estimate)
	case time.Time:
		c.kind = reflect.Struct
		c.timeB = vector.NewBuilderWithEstimate[int64](vector.KindTimestamp64, c.estimate)
	case string, []byte:
		c.kind = reflect.String
		c.bytesB = vector.NewBytesBuilderWithEstimate(vector.KindString, c.estimate, 16)
	default:
		c.kind = reflect.String
		c.bytesB = vector.NewBytesBuilderWithEstimate(vector.KindString, c.estimate, 16)
	}
	return nil
}

func (c *columnBuilder) appendValue(v interface{}) error {
	switch c.kind {
	case reflect.Int64:
		n, err := asInt64(v)
		if err != nil {
			return err
		}
		return c.numInt.Append(n)
	case reflect.Float64:
		f, err := asFloat64(v)
		if err != nil {
			return err
		}
		return c.numFloat.Append(f)
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return errors.TypeMismatchErr("bool", "scanned value")
		}
		return c.boolB.Append(b)
	case reflect.Struct:
		t, ok := v.(time.Time)
		if !ok {
			return errors.TypeMismatchErr("time.Time", "scanned value")
		}
		return c.timeB.Append(t.UnixNano())
	default:
		return c.bytesB.Append(asBytes(v))
	}
}

func (c *columnBuilder) appendNullToResolved() error {
	switch c.kind {
	case reflect.Int64:
		return c.numInt.AppendNull()
	case reflect.Float64:
		return c.numFloat.AppendNull()
	case reflect.Bool:
		return c.boolB.AppendNull()
	case reflect.Struct:
		return c.timeB.AppendNull()
	default:
		return c.bytesB.AppendNull()
	}
}

func (c *columnBuilder) finish() (vector.Vector, error) {
	if c.kind == reflect.Invalid {
		// Every row in this batch was null; fall back to an all-null
		// string column so the morsel still carries pendingNulls rows.
		b := vector.NewBytesBuilderWithEstimate(vector.KindString, c.pendingNulls, 0)
		for i := 0; i < c.pendingNulls; i++ {
			if err := b.AppendNull(); err != nil {
				return nil, err
			}
		}
		return b.Finish()
	}
	switch c.kind {
	case reflect.Int64:
		return c.numInt.Finish()
	case reflect.Float64:
		return c.numFloat.Finish()
	case reflect.Bool:
		return c.boolB.Finish()
	case reflect.Struct:
		return c.timeB.Finish()
	default:
		return c.bytesB.Finish()
	}
}

func asInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, errors.TypeMismatchErr("int64", "scanned value")
	}
}

func asFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, errors.TypeMismatchErr("float64", "scanned value")
	}
}

func asBytes(v interface{}) []byte {
	switch s := v.(type) {
	case []byte:
		return s
	case string:
		return []byte(s)
	default:
		return []byte(reflectString(v))
	}
}

func reflectString(v interface{}) string {
	return reflect.ValueOf(v).String()
}
