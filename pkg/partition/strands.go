package partition

import (
	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
)

// Strands chunks the fields of g in id order into regions of perStrand
// fields; the last region takes the remainder. Fit is not considered.
func Strands(g *field.Graph, perStrand int) (*Result, error) {
	if perStrand < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "per_strand must be at least 1, got %d", perStrand)
	}
	n := g.Len()
	r := &Result{Assignment: make([]int, n)}
	for start := 0; start < n; start += perStrand {
		end := min(start+perStrand, n)
		reg := Region{ID: len(r.Regions)}
		for id := start; id < end; id++ {
			reg.Fields = append(reg.Fields, id)
			r.Assignment[id] = reg.ID
		}
		r.Regions = append(r.Regions, reg)
	}
	r.Stats = Stats{
		Trials:   1,
		Regions:  len(r.Regions),
		Smallest: r.Regions[len(r.Regions)-1].Len(),
	}
	return r, nil
}
