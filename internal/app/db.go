package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/weekly-picks/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	maxTracedQueryBytes = 512
	dbPingTimeout       = 5 * time.Second
)

// openDB opens a traced lib/pq pool and verifies it with a ping.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgresDSN(cfg.DBURL, cfg.ServiceName, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open(
		"postgres",
		dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(databaseName(dsn)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// postgresDSN fills lib/pq options the caller left unset: application_name
// and, when requested, binary_parameters. Keyword/value DSNs get the same
// treatment as URLs.
func postgresDSN(raw, appName string, binaryParameters bool) string {
	raw = strings.TrimSpace(raw)
	opts := map[string]string{}
	if appName = strings.TrimSpace(appName); appName != "" {
		opts["application_name"] = appName
	}
	if binaryParameters {
		opts["binary_parameters"] = "yes"
	}
	if len(opts) == 0 || raw == "" {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		for _, key := range []string{"application_name", "binary_parameters"} {
			if value, ok := opts[key]; ok && query.Get(key) == "" {
				query.Set(key, value)
			}
		}
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	out := raw
	for _, key := range []string{"application_name", "binary_parameters"} {
		value, ok := opts[key]
		if !ok || keywordValue(raw, key) != "" {
			continue
		}
		out += " " + key + "=" + quoteKeywordValue(value)
	}
	return out
}

func databaseName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if parsed, err := url.Parse(dsn); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}
	return keywordValue(dsn, "dbname")
}

func keywordValue(dsn, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(dsn) {
		if value, ok := strings.CutPrefix(field, prefix); ok {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

func quoteKeywordValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// traceQuery collapses whitespace and caps the statement stored on DB spans.
func traceQuery(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryBytes {
		return normalized
	}

	cut := maxTracedQueryBytes
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
