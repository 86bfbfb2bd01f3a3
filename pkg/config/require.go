package config

import "fmt"

// Validate reports the first setting the chosen store backend cannot start without.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if err := NonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
			return err
		}
	case BackendSQLite:
		if err := NonEmpty(c.SQLitePath, "SQLITE_PATH"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	return nil
}

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}
