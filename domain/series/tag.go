package series

import (
	"fmt"
	"math"
	"strings"
)

// ColumnSpec is one entry of the declarative column-tag configuration: the
// header-field values assigned to a raw source column. Fields may contain
// placeholders such as {variable} or {region} that are resolved from
// parser-supplied context.
type ColumnSpec struct {
	Variable  string `yaml:"variable"`
	Region    string `yaml:"region"`
	Attribute string `yaml:"attribute"`
	Source    string `yaml:"source"`
	Web       string `yaml:"web"`
	Unit      string `yaml:"unit"`
}

// Resolve substitutes placeholders and returns the finished key. A
// placeholder left unresolved is a configuration error.
func (s ColumnSpec) Resolve(vars map[string]string) (ColumnKey, error) {
	fields := []string{s.Variable, s.Region, s.Attribute, s.Source, s.Web, s.Unit}
	for i, field := range fields {
		for name, val := range vars {
			field = strings.ReplaceAll(field, "{"+name+"}", val)
		}
		if open := strings.IndexByte(field, '{'); open >= 0 {
			return ColumnKey{}, fmt.Errorf("unresolved placeholder in %q", field)
		}
		fields[i] = field
	}
	return ColumnKey{
		Variable:  fields[0],
		Region:    fields[1],
		Attribute: fields[2],
		Source:    fields[3],
		Web:       fields[4],
		Unit:      fields[5],
	}, nil
}

// Tag maps each raw column of t to its structured key and builds the tagged
// frame. Raw columns absent from colmap are dropped: source files routinely
// carry extra columns not of interest. The dropped names are returned so the
// caller can log them at debug level. Two raw columns resolving to the same
// key indicate a parser bug and fail loudly.
func Tag(t *RawTable, colmap map[string]ColumnSpec, vars map[string]string) (*Frame, []string, error) {
	index := t.sortedTimes()
	frame := withIndex(index)
	var dropped []string

	for _, raw := range t.Columns() {
		spec, ok := colmap[raw]
		if !ok {
			dropped = append(dropped, raw)
			continue
		}
		key, err := spec.Resolve(vars)
		if err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", raw, err)
		}
		values := make([]float64, len(index))
		for i, ts := range index {
			v, present := t.rows[ts.Unix()][raw]
			if !present {
				v = math.NaN()
			}
			values[i] = v
		}
		if err := frame.AddColumn(key, values); err != nil {
			return nil, nil, err
		}
	}
	return frame, dropped, nil
}
