package database

// Config describes one data source. Databases are referenced by Name from the
// compare settings.
type Config struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Driver    string `mapstructure:"driver" yaml:"driver"` // mysql, postgres, sqlserver, oracle, sqlite, db2
	DSN       string `mapstructure:"dsn" yaml:"dsn"`
	Catalog   string `mapstructure:"catalog" yaml:"catalog,omitempty"`
	Schema    string `mapstructure:"schema" yaml:"schema,omitempty"`
	NodeGroup string `mapstructure:"node_group" yaml:"node_group,omitempty"`

	MaxOpenConns   int `mapstructure:"max_open_conns" yaml:"max_open_conns,omitempty"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
}
