package match

import (
	"fmt"
	"io"
	"time"

	"github.com/flowsilk/flowpack/decider"
	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/side"
	"github.com/rs/zerolog"
)

// EngineOptions configures an Engine. Out{Query,Response} receive every
// matched record the engine reads from the corresponding side (carrying a
// non-zero packed match id in NextHop); unmatched records are written there,
// with a zeroed NextHop, only when UnmatchedQuery/UnmatchedResponse is set.
type EngineOptions struct {
	OutQuery, OutResponse Writer

	UnmatchedQuery    bool
	UnmatchedResponse bool

	Sensors *decider.Registry // only needed if Policy.Relate uses FIELD_CLASS

	Logger *zerolog.Logger
}

// EngineStats tallies an Engine's Run.
type EngineStats struct {
	Matches           uint64
	MatchedQuery      uint64
	MatchedResponse   uint64
	UnmatchedQuery    uint64
	UnmatchedResponse uint64
}

// Engine drives the two-stream temporal join described in spec.md §4.G: a
// synchronous state machine (READ_BOTH -> ESTABLISH -> EXTEND) rather than
// pipe.Direction's channel-fed concurrent readers, since this driver owns
// exactly two streams and the core's concurrency model requires
// single-threaded cooperative scheduling per join.
type Engine struct {
	*zerolog.Logger

	Query, Response *Source
	Policy          Policy
	Options         EngineOptions

	resolver    sensorResolver
	nextMatchID uint32

	Stats EngineStats
}

// NewEngine validates policy and returns a ready-to-run Engine.
func NewEngine(query, response *Source, policy Policy, opts EngineOptions) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		Query:    query,
		Response: response,
		Policy:   policy,
		Options:  opts,
		resolver: sensorResolver{registry: opts.Sensors},
	}
	if opts.Logger != nil {
		e.Logger = opts.Logger
	} else {
		l := zerolog.Nop()
		e.Logger = &l
	}
	return e, nil
}

// member is one record folded into an established match.
type member struct {
	sd  side.Side
	rec record.Record
}

// Run drives the join to completion: READ_BOTH until both streams are
// exhausted. I/O errors are fatal and abort the join, per spec.md §4.G.
func (e *Engine) Run() error {
	for {
		q, qErr := e.Query.Peek()
		r, rErr := e.Response.Peek()

		if qErr != nil && qErr != io.EOF {
			return fmt.Errorf("%w: query: %v", ErrIO, qErr)
		}
		if rErr != nil && rErr != io.EOF {
			return fmt.Errorf("%w: response: %v", ErrIO, rErr)
		}

		qDone := qErr == io.EOF
		rDone := rErr == io.EOF
		if qDone || rDone {
			if !qDone {
				if err := e.drainUnmatched(e.Query, side.QUERY); err != nil {
					return err
				}
			}
			if !rDone {
				if err := e.drainUnmatched(e.Response, side.RESPONSE); err != nil {
					return err
				}
			}
			return nil
		}

		if e.establishes(q, r) {
			if err := e.establishAndExtend(q, r); err != nil {
				return err
			}
			continue
		}

		// advance whichever stream's head is earlier, writing it unmatched
		// if it can never be revisited
		if q.STime.After(r.STime) {
			if err := e.emitUnmatched(e.Response, side.RESPONSE); err != nil {
				return err
			}
		} else {
			if err := e.emitUnmatched(e.Query, side.QUERY); err != nil {
				return err
			}
		}
	}
}

// establishes reports whether q and r satisfy the match-establishment rule:
// equal on every relate-pair, and within the (possibly symmetric) time
// window.
func (e *Engine) establishes(q, r *record.Record) bool {
	for _, rp := range e.Policy.Relate {
		if !rp.equal(q, r, e.resolver) {
			return false
		}
	}

	delta := e.Policy.Delta
	forward := !q.STime.After(r.STime) && !r.STime.After(q.ETime().Add(delta))
	if !e.Policy.Symmetric {
		return forward
	}
	backward := !r.STime.After(q.STime) && !q.STime.After(r.ETime().Add(delta))
	return forward && backward
}

// baseSide picks the base record per the documented heuristic: for TCP/UDP,
// the side whose destination port is <1024 and source port >=1024 is base;
// otherwise query is base.
func baseSide(q, r *record.Record) side.Side {
	isBase := func(rec *record.Record) bool {
		return (rec.Protocol == 6 || rec.Protocol == 17) && rec.DstPort < 1024 && rec.SrcPort >= 1024
	}
	if isBase(r) && !isBase(q) {
		return side.RESPONSE
	}
	return side.QUERY
}

func (e *Engine) establishAndExtend(q, r *record.Record) error {
	e.nextMatchID++
	id := e.nextMatchID

	members := []member{{side.QUERY, *q}, {side.RESPONSE, *r}}
	maxETime := q.ETime()
	if r.ETime().After(maxETime) {
		maxETime = r.ETime()
	}
	base := baseSide(q, r)
	var baseRec record.Record
	if base == side.QUERY {
		baseRec = *q
	} else {
		baseRec = *r
	}

	e.Query.Advance()
	e.Response.Advance()

	for {
		qh, qErr := e.Query.Peek()
		rh, rErr := e.Response.Peek()
		if qErr != nil && qErr != io.EOF {
			return fmt.Errorf("%w: query: %v", ErrIO, qErr)
		}
		if rErr != nil && rErr != io.EOF {
			return fmt.Errorf("%w: response: %v", ErrIO, rErr)
		}

		var pickSide side.Side
		switch {
		case qErr == io.EOF && rErr == io.EOF:
			goto done
		case qErr == io.EOF:
			pickSide = side.RESPONSE
		case rErr == io.EOF:
			pickSide = side.QUERY
		case qh.STime.Before(rh.STime):
			pickSide = side.QUERY
		case rh.STime.Before(qh.STime):
			pickSide = side.RESPONSE
		default:
			pickSide = base
		}

		var cand *record.Record
		var src *Source
		if pickSide == side.QUERY {
			cand, src = qh, e.Query
		} else {
			cand, src = rh, e.Response
		}

		relatesOK := true
		for _, rp := range e.Policy.Relate {
			var ok bool
			if pickSide == base {
				ok = rp.equal(cand, &baseRec, e.resolver)
			} else if base == side.QUERY {
				ok = rp.equal(&baseRec, cand, e.resolver)
			} else {
				ok = rp.equal(cand, &baseRec, e.resolver)
			}
			if !ok {
				relatesOK = false
				break
			}
		}

		if !relatesOK || !withinWindow(e.Policy, baseRec, maxETime, *cand) {
			goto done
		}

		members = append(members, member{pickSide, *cand})
		if cand.ETime().After(maxETime) {
			maxETime = cand.ETime()
		}
		src.Advance()
	}

done:
	return e.writeMembers(id, members)
}

func withinWindow(p Policy, base record.Record, maxETime time.Time, cand record.Record) bool {
	switch p.Kind {
	case INFINITE:
		return true
	case RELATIVE:
		return !cand.STime.After(maxETime.Add(p.Delta))
	default: // ABSOLUTE
		return !cand.STime.After(base.ETime().Add(p.Delta))
	}
}

func (e *Engine) writeMembers(id uint32, members []member) error {
	e.Stats.Matches++
	for _, m := range members {
		rec := m.rec
		rec.NextHop = packNextHop(id, m.sd)
		w := e.Options.OutQuery
		if m.sd == side.RESPONSE {
			w = e.Options.OutResponse
			e.Stats.MatchedResponse++
		} else {
			e.Stats.MatchedQuery++
		}
		if err := w.WriteRecord(&rec); err != nil {
			return fmt.Errorf("%w: write matched record: %v", ErrIO, err)
		}
	}
	return nil
}

func (e *Engine) emitUnmatched(src *Source, sd side.Side) error {
	rec, err := src.Peek()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer src.Advance()

	want := e.Options.UnmatchedQuery
	w := e.Options.OutQuery
	if sd == side.RESPONSE {
		want = e.Options.UnmatchedResponse
		w = e.Options.OutResponse
	}
	if !want {
		return nil
	}

	out := *rec
	out.NextHop = record.IP{}
	if sd == side.QUERY {
		e.Stats.UnmatchedQuery++
	} else {
		e.Stats.UnmatchedResponse++
	}
	if err := w.WriteRecord(&out); err != nil {
		return fmt.Errorf("%w: write unmatched record: %v", ErrIO, err)
	}
	return nil
}

func (e *Engine) drainUnmatched(src *Source, sd side.Side) error {
	for {
		_, err := src.Peek()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		if err := e.emitUnmatched(src, sd); err != nil {
			return err
		}
	}
}
