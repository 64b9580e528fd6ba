package cleaning

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/okian/wastewater/internal/domain/model"
)

// Samples decodes a cleaned table into typed samples, preserving row order.
func Samples(cleaned dataframe.DataFrame) ([]model.Sample, error) {
	if cleaned.Err != nil {
		return nil, cleaned.Err
	}
	names := cleaned.Names()
	if len(names) != len(model.CleanedColumns) {
		return nil, &SchemaError{Column: columnDate, Reason: "belongs to a table that is not cleaned"}
	}
	for i, name := range model.CleanedColumns {
		if names[i] != name {
			return nil, &SchemaError{Column: name, Reason: "is missing or out of order"}
		}
	}

	dates := cleaned.Col(columnDate)
	values := cleaned.Col(columnValue).Float()
	out := make([]model.Sample, cleaned.Nrow())
	for i := range out {
		raw := dates.Elem(i).String()
		t, err := ParseDate(raw)
		if err != nil {
			return nil, &ParseError{Row: i, Value: raw, Err: err}
		}
		out[i] = model.Sample{CollectedAt: t, Concentration: values[i]}
	}
	return out, nil
}

// Rows converts samples to their wire shape.
func Rows(samples []model.Sample) []model.Row {
	out := make([]model.Row, len(samples))
	for i, s := range samples {
		out[i] = s.Row()
	}
	return out
}
