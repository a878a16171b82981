package probe

import (
	"strings"

	"backend-probe/core/backend"

	"github.com/google/uuid"
)

// Config holds probe defaults.
type Config struct {
	// Table is the table probed when none is given on the command line.
	Table string `mapstructure:"table" default:""`
	// Columns is the comma separated column list the table probe selects.
	Columns string `mapstructure:"columns" default:"*"`
	// IDColumn is the generated identifier captured by the round trip.
	IDColumn string `mapstructure:"id_column" default:"id"`
	// TimestampColumn orders the round-trip visibility read.
	TimestampColumn string `mapstructure:"timestamp_column" default:"created_at"`
	// VisibleWindow is how many recent rows the round trip reads back.
	VisibleWindow int `mapstructure:"visible_window" default:"5"`
	// SampleColumn receives a unique marker when no sample row is supplied.
	SampleColumn string `mapstructure:"sample_column" default:"name"`
}

// ColumnList splits Columns; "*" or empty means all columns.
func (c Config) ColumnList() []string {
	return SplitColumns(c.Columns)
}

// SampleRow returns a row carrying a unique marker in SampleColumn.
func (c Config) SampleRow() backend.Row {
	col := c.SampleColumn
	if col == "" {
		col = "name"
	}
	return backend.Row{col: "probe-" + uuid.NewString()}
}

func (c Config) withDefaults() Config {
	if c.IDColumn == "" {
		c.IDColumn = "id"
	}
	if c.TimestampColumn == "" {
		c.TimestampColumn = "created_at"
	}
	if c.VisibleWindow <= 0 {
		c.VisibleWindow = 5
	}
	return c
}

// SplitColumns parses a comma separated column list.
func SplitColumns(s string) []string {
	var cols []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "*" {
			continue
		}
		cols = append(cols, part)
	}
	return cols
}
