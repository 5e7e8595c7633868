// internal/store/aggregate.go
package store

import (
	"fmt"
)

// Stage is one step of an aggregation pipeline. Only Match and Group exist.
type Stage interface {
	apply(docs []Document) ([]Document, error)
}

// Match keeps the documents satisfying Filter.
type Match struct {
	Filter Filter
}

func (m Match) apply(docs []Document) ([]Document, error) {
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if m.Filter.Match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

type AccumulatorOp int

const (
	AccSum AccumulatorOp = iota
	AccAvg
)

// Accumulator computes one output field of a Group.
// Sum with an empty Field counts documents.
type Accumulator struct {
	Op    AccumulatorOp
	Field string
}

func Count() Accumulator            { return Accumulator{Op: AccSum} }
func Sum(field string) Accumulator { return Accumulator{Op: AccSum, Field: field} }
func Avg(field string) Accumulator { return Accumulator{Op: AccAvg, Field: field} }

// Group buckets documents by the value of By ("" puts everything in one
// bucket with a nil _id) and emits {_id: key, <name>: <accumulated>} per
// bucket, in order of first appearance.
type Group struct {
	By     string
	Fields map[string]Accumulator
}

type groupState struct {
	key    interface{}
	sums   map[string]float64
	counts map[string]int
}

func (g Group) apply(docs []Document) ([]Document, error) {
	for name, acc := range g.Fields {
		if acc.Op == AccAvg && acc.Field == "" {
			return nil, fmt.Errorf("group field %q: $avg needs a field", name)
		}
	}

	var order []string
	buckets := make(map[string]*groupState)

	for _, doc := range docs {
		var key interface{}
		if g.By != "" {
			key, _ = doc.Lookup(g.By)
		}
		bucketKey := fmt.Sprintf("%T:%v", key, key)
		state, ok := buckets[bucketKey]
		if !ok {
			state = &groupState{key: key, sums: map[string]float64{}, counts: map[string]int{}}
			buckets[bucketKey] = state
			order = append(order, bucketKey)
		}

		for name, acc := range g.Fields {
			if acc.Field == "" {
				state.sums[name]++
				continue
			}
			raw, found := doc.Lookup(acc.Field)
			if !found {
				continue
			}
			n, ok := toNumber(raw)
			if !ok {
				continue
			}
			state.sums[name] += n
			state.counts[name]++
		}
	}

	out := make([]Document, 0, len(order))
	for _, bucketKey := range order {
		state := buckets[bucketKey]
		doc := Document{FieldID: state.key}
		for name, acc := range g.Fields {
			switch acc.Op {
			case AccAvg:
				if state.counts[name] == 0 {
					doc[name] = nil
				} else {
					doc[name] = state.sums[name] / float64(state.counts[name])
				}
			default:
				doc[name] = state.sums[name]
			}
		}
		out = append(out, doc)
	}
	return out, nil
}

// RunPipeline applies stages in order.
func RunPipeline(docs []Document, stages ...Stage) ([]Document, error) {
	current := docs
	for i, stage := range stages {
		next, err := stage.apply(current)
		if err != nil {
			return nil, fmt.Errorf("aggregate stage %d: %w", i, err)
		}
		current = next
	}
	return current, nil
}
