package provision

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/meterseed/internal/config"
	"github.com/smallbiznis/meterseed/internal/m3ter"
)

// Generator synthesizes randomized measurement batches from a seed profile.
type Generator struct {
	size     int
	start    time.Time
	seconds  int64
	measures []config.MeasureField
}

func NewGenerator(p config.Profile) (*Generator, error) {
	start, end, err := p.Usage.Window()
	if err != nil {
		return nil, err
	}
	seconds := int64(end.Sub(start) / time.Second)
	if seconds <= 0 {
		return nil, fmt.Errorf("usage window is empty")
	}
	return &Generator{
		size:     p.Usage.BatchSize,
		start:    start,
		seconds:  seconds,
		measures: p.Measures,
	}, nil
}

// Batch builds one ingestion request for the given account. Timestamps are
// drawn uniformly from the configured window at second granularity; measure
// values uniformly from each field's [min, max] range.
func (g *Generator) Batch(meterCode, accountCode string) m3ter.MeasurementBatch {
	measurements := make([]m3ter.Measurement, g.size)
	for i := range measurements {
		measure := make(map[string]int64, len(g.measures))
		for _, m := range g.measures {
			measure[m.Code] = m.Min + rand.Int64N(m.Max-m.Min+1)
		}
		ts := g.start.Add(time.Duration(rand.Int64N(g.seconds)) * time.Second)
		measurements[i] = m3ter.Measurement{
			UID:       uuid.NewString(),
			Meter:     meterCode,
			Account:   accountCode,
			Timestamp: config.FormatTimestamp(ts),
			Measure:   measure,
		}
	}
	return m3ter.MeasurementBatch{Measurements: measurements}
}
