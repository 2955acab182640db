package interval

// Units used by the loaders.
const (
	UnitTicks   = "ticks"
	UnitKeyMode = "key_mode"
	UnitOpen    = "open"
)

// Data is the parallel-array form of a list of intervals.
type Data struct {
	StartTimes   []int64  `json:"start_times"`
	EndTimes     []int64  `json:"end_times"`
	Labels       []string `json:"labels"`
	IntervalUnit string   `json:"interval_unit"`
	LabelUnit    string   `json:"label_unit"`
}

// NewData converts intervals into Data.
func NewData[K ~string](ivs []Interval[K], intervalUnit, labelUnit string) Data {
	d := Data{
		StartTimes:   make([]int64, len(ivs)),
		EndTimes:     make([]int64, len(ivs)),
		Labels:       make([]string, len(ivs)),
		IntervalUnit: intervalUnit,
		LabelUnit:    labelUnit,
	}
	for i, iv := range ivs {
		d.StartTimes[i] = iv.Start
		d.EndTimes[i] = iv.End
		d.Labels[i] = string(iv.Label)
	}
	return d
}

// Len returns the number of intervals.
func (d Data) Len() int {
	return len(d.Labels)
}

// At returns the label active at the given tick, if any.
func (d Data) At(tick int64) (string, bool) {
	for i := range d.Labels {
		if tick >= d.StartTimes[i] && tick <= d.EndTimes[i] {
			return d.Labels[i], true
		}
	}
	return "", false
}
