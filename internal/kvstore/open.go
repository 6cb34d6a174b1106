package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"pagesmith/internal/database"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendValkey   = "valkey"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string        // file and sqlite
	PostgresDSN string        // postgres
	MySQLDSN    string        // mysql
	Valkey      *redis.Client // valkey
	MongoURI    string        // mongo
	MongoDB     string        // mongo
}

// Open connects to the configured backend, running SQL migrations where
// needed, and returns a ready store.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendFile:
		s, err = NewFileStore(opts.DataDir)
	case BackendSQLite:
		if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("kvstore: create data dir: %w", err)
		}
		s, err = openSQL(ctx, database.SQLite, database.SQLiteDSN(filepath.Join(opts.DataDir, "pagesmith.db")))
	case BackendPostgres:
		s, err = openSQL(ctx, database.Postgres, opts.PostgresDSN)
	case BackendMySQL:
		s, err = openSQL(ctx, database.MySQL, opts.MySQLDSN)
	case BackendValkey:
		if opts.Valkey == nil {
			return nil, fmt.Errorf("kvstore: valkey backend needs a client")
		}
		s = NewValkeyStore(opts.Valkey)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.MongoURI, opts.MongoDB)
	case BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s: %w", opts.Backend, err)
	}
	slog.Info("storage backend ready", "backend", opts.Backend)
	return s, nil
}

func openSQL(ctx context.Context, d database.Dialect, dsn string) (*SQLStore, error) {
	db, err := database.Connect(ctx, d, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, d); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db, d), nil
}
