package report

import (
	"encoding/json"
	"strconv"
)

// CellKind classifies one runner-day of the matrix.
type CellKind int

// Cell kinds. The zero value is Unreported.
const (
	Unreported CellKind = iota
	Rest
	Value
)

// Sentinels used when a cell is serialized.
const (
	UnreportedText = "unreported"
	RestText       = "rest"
)

// Cell is a typed matrix cell. Km is meaningful only for Value cells and
// may legitimately be zero.
type Cell struct {
	Kind CellKind
	Km   float64
}

// String renders the cell the way it is exported.
func (c Cell) String() string {
	switch c.Kind {
	case Rest:
		return RestText
	case Value:
		return formatKm(c.Km)
	default:
		return UnreportedText
	}
}

// MarshalJSON emits the sentinel string or the bare number.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Kind == Value {
		return []byte(formatKm(c.Km)), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case RestText:
			*c = Cell{Kind: Rest}
		default:
			*c = Cell{Kind: Unreported}
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Cell{Kind: Value, Km: f}
	return nil
}

func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
