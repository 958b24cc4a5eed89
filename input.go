package statement

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"gopkg.in/yaml.v2"
)

// isoDate is the layout dates are entered in.
const isoDate = "2006-01-02"

// Input is the data a statement is rendered from. The renderer only reads it.
type Input struct {
	Company string             `yaml:"company" json:"company"`
	Date    string             `yaml:"date" json:"date"`
	Figures map[string]float64 `yaml:"figures" json:"figures"`
}

// ReadInput decodes an Input document. YAML is read with yaml.v2, which also
// accepts JSON.
func ReadInput(r io.Reader) (Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read input: %w", err)
	}
	var in Input
	if err := yaml.UnmarshalStrict(raw, &in); err != nil {
		return Input{}, fmt.Errorf("decode input: %w", err)
	}
	if invalid := in.Invalid(); len(invalid) > 0 {
		return Input{}, &InputError{Invalid: invalid}
	}
	return in, nil
}

// Figure returns the figure for key, if present.
func (in Input) Figure(key string) (float64, bool) {
	v, ok := in.Figures[key]
	return v, ok
}

// Missing returns the keys of l that in does not provide.
func (in Input) Missing(l Layout) []string {
	var missing []string
	for _, k := range l.RequiredKeys() {
		if _, ok := in.Figures[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Invalid returns the sorted keys of figures that are NaN or infinite.
func (in Input) Invalid() []string {
	var invalid []string
	for k, v := range in.Figures {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			invalid = append(invalid, k)
		}
	}
	sort.Strings(invalid)
	return invalid
}

// resolve returns the number item shows, or nil for a note.
func (in Input) resolve(it LineItem) any {
	if it.Note {
		return nil
	}
	v := it.Value.Literal
	if it.Value.Key != "" {
		if f, ok := in.Figures[it.Value.Key]; ok {
			v = f
		}
	}
	if it.Negate {
		v = -v
	}
	return v
}

// DateLine returns the line printed under the statement name.
func DateLine(p Period, date string) string {
	d := date
	if t, err := time.Parse(isoDate, date); err == nil {
		d = t.Format("January 2, 2006")
	}
	if p == YearEnded {
		return "For the Year Ended " + d
	}
	return "As of " + d
}
