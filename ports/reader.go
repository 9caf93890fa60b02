package ports

import (
	"goab/domain/experiment"
)

// TableReader loads raw tabular observation data from an external
// source (spreadsheet, CSV, upload). Column semantics are applied
// later through a ColumnMapping; readers only deliver cells.
type TableReader interface {
	Read() (*experiment.Table, error)
}
