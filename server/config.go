package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/weir/server/dao"
	"github.com/dekarrin/weir/server/dao/inmem"
	"github.com/dekarrin/weir/server/dao/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(s) {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	Type    DBType
	DataDir string
}

func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if err := os.MkdirAll(db.DataDir, 0770); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return sqlite.NewDatastore(db.DataDir)
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a "engine[:params]" string, e.g. "sqlite:/data"
// or "inmem", into a Database.
func ParseDBConnString(s string) (Database, error) {
	var paramStr string
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 2 {
		paramStr = strings.TrimSpace(parts[1])
	}

	eng, err := ParseDBType(strings.TrimSpace(parts[0]))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch eng {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}
		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	default:
		return Database{}, fmt.Errorf("unknown DB engine: %q", eng.String())
	}
}

// Config is a configuration for a Server.
type Config struct {
	// TokenSecret signs and validates bearer JWTs.
	TokenSecret []byte

	// DB selects and configures the persistence layer.
	DB Database

	// UnauthDelayMillis pads 401/403/500 responses by this many
	// milliseconds. Negative disables the delay.
	UnauthDelayMillis int
}

func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

func (cfg Config) FillDefaults() Config {
	newCfg := cfg
	if newCfg.DB.Type == DatabaseNone {
		newCfg.DB = Database{Type: DatabaseInMemory}
	}
	if newCfg.UnauthDelayMillis == 0 {
		newCfg.UnauthDelayMillis = 1000
	}
	return newCfg
}

func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) == 0 {
		return fmt.Errorf("TokenSecret must not be empty")
	}
	return cfg.DB.Validate()
}
