package sdkmetric

import (
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
)

// instrumentKind distinguishes the three cell shapes a synchronous or
// observable instrument can aggregate into.
type instrumentKind int

const (
	kindSum instrumentKind = iota
	kindGauge
	kindHistogram
)

// defaultHistogramBounds are the OTel spec's default explicit bucket
// boundaries, used when an instrument's creation options don't override
// them.
var defaultHistogramBounds = []float64{0, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

// cell is the per-attribute-set aggregate for one instrument identity.
type cell struct {
	attrs []attribute.KeyValue

	// sum/gauge
	intValue   int64
	fltValue   float64
	isInt      bool
	hasValue   bool

	// histogram
	count        uint64
	sum          float64
	min, max     float64
	bucketCounts []uint64
}

// instrumentState owns every cell recorded against one instrument name,
// the way the reference engine keeps "one live aggregator cell per
// identity" where identity is the attribute set.
type instrumentState struct {
	mu sync.Mutex

	name        string
	description string
	unit        string
	kind        instrumentKind
	monotonic   bool
	bounds      []float64 // histogram only

	startTime time.Time
	cells     map[string]*cell
	order     []string
}

func newInstrumentState(name, description, unit string, kind instrumentKind, monotonic bool, bounds []float64) *instrumentState {
	if kind == kindHistogram && len(bounds) == 0 {
		bounds = defaultHistogramBounds
	}
	return &instrumentState{
		name:        name,
		description: description,
		unit:        unit,
		kind:        kind,
		monotonic:   monotonic,
		bounds:      bounds,
		startTime:   time.Now(),
		cells:       make(map[string]*cell),
	}
}

func (s *instrumentState) cellFor(attrs []attribute.KeyValue) *cell {
	set := attribute.NewSet(attrs...)
	key := set.Equivalent()

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[key]
	if !ok {
		c = &cell{attrs: set.ToSlice()}
		if s.kind == kindHistogram {
			c.bucketCounts = make([]uint64, len(s.bounds)+1)
		}
		s.cells[key] = c
		s.order = append(s.order, key)
	}
	return c
}

// addSum accumulates incr into the cell for attrs. Integer-valued
// instruments keep an exact int64 accumulator so cumulative totals never
// drift from floating point rounding.
func (s *instrumentState) addSum(incr float64, isInt bool, attrs []attribute.KeyValue) {
	c := s.cellFor(attrs)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.isInt = isInt
	c.hasValue = true
	if isInt {
		c.intValue += int64(incr)
	} else {
		c.fltValue += incr
	}
}

// setGauge replaces the cell's last-known value, for synchronous Gauge
// instruments.
func (s *instrumentState) setGauge(value float64, isInt bool, attrs []attribute.KeyValue) {
	c := s.cellFor(attrs)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.isInt = isInt
	c.hasValue = true
	if isInt {
		c.intValue = int64(value)
	} else {
		c.fltValue = value
	}
}

// setObservable replaces the cell's last-reported value from a callback,
// used by both ObservableGauge (last value wins) and ObservableCounter/
// ObservableUpDownCounter (callback reports the absolute cumulative
// value, not a delta).
func (s *instrumentState) setObservable(value float64, isInt bool, attrs []attribute.KeyValue) {
	c := s.cellFor(attrs)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.isInt = isInt
	c.hasValue = true
	if isInt {
		c.intValue = int64(value)
	} else {
		c.fltValue = value
	}
}

func (s *instrumentState) recordHistogram(value float64, attrs []attribute.KeyValue) {
	c := s.cellFor(attrs)
	s.mu.Lock()
	defer s.mu.Unlock()

	bounds := s.bounds

	if c.count == 0 {
		c.min, c.max = value, value
	} else {
		if value < c.min {
			c.min = value
		}
		if value > c.max {
			c.max = value
		}
	}
	c.count++
	c.sum += value

	// bounds[i] is the smallest boundary >= value, so bucket i covers
	// (bounds[i-1], bounds[i]]; a value above every boundary lands in the
	// final overflow bucket at len(bounds).
	idx := sort.SearchFloat64s(bounds, value)
	c.bucketCounts[idx]++
}

// snapshot builds the OTLP-shaped Metric for every cell currently held,
// in first-seen attribute-set order.
func (s *instrumentState) snapshot(now time.Time) encode.Metric {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := encode.Metric{Name: s.name, Description: s.description, Unit: s.unit}

	switch s.kind {
	case kindSum:
		points := make([]encode.NumberDataPoint, 0, len(s.order))
		for _, key := range s.order {
			c := s.cells[key]
			if !c.hasValue {
				continue
			}
			points = append(points, encode.NumberDataPoint{
				Attributes: c.attrs,
				StartTime:  s.startTime,
				Time:       now,
				Value:      numberValue(c),
			})
		}
		m.Sum = &encode.SumData{DataPoints: points, AggregationTemporality: encode.TemporalityCumulative, IsMonotonic: s.monotonic}
	case kindGauge:
		points := make([]encode.NumberDataPoint, 0, len(s.order))
		for _, key := range s.order {
			c := s.cells[key]
			if !c.hasValue {
				continue
			}
			points = append(points, encode.NumberDataPoint{
				Attributes: c.attrs,
				StartTime:  s.startTime,
				Time:       now,
				Value:      numberValue(c),
			})
		}
		m.Gauge = &encode.GaugeData{DataPoints: points}
	case kindHistogram:
		bounds := s.bounds
		points := make([]encode.HistogramDataPoint, 0, len(s.order))
		for _, key := range s.order {
			c := s.cells[key]
			minV, maxV := c.min, c.max
			points = append(points, encode.HistogramDataPoint{
				Attributes:     c.attrs,
				StartTime:      s.startTime,
				Time:           now,
				Count:          c.count,
				Sum:            c.sum,
				Min:            &minV,
				Max:            &maxV,
				BucketCounts:   append([]uint64(nil), c.bucketCounts...),
				ExplicitBounds: append([]float64(nil), bounds...),
			})
		}
		m.Histogram = &encode.HistogramData{DataPoints: points, AggregationTemporality: encode.TemporalityCumulative}
	}
	return m
}

func numberValue(c *cell) attribute.Value {
	if c.isInt {
		return attribute.Int64Value(c.intValue)
	}
	return attribute.Float64Value(c.fltValue)
}
