package export

import "fmt"

// Dataset is one named table of rendered values.
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]string
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset %q requires at least one header", d.Name)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("dataset %q row %d has %d cells, want %d", d.Name, i+1, len(row), len(d.Headers))
		}
	}
	return nil
}
