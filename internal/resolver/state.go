package resolver

import "context"

// State is a position in the pipeline, named after the last completed stage.
type State int

const (
	StateUnextracted State = iota
	StateExtracted
	StateNormalized
	StateResolved
	StateSynthesized
	StateExecuted
	StateDone
)

func (s State) String() string {
	switch s {
	case StateUnextracted:
		return "unextracted"
	case StateExtracted:
		return "extracted"
	case StateNormalized:
		return "normalized"
	case StateResolved:
		return "resolved"
	case StateSynthesized:
		return "synthesized"
	case StateExecuted:
		return "executed"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// StateOf derives the state of rec from the furthest stage whose output is
// populated. A record never derives to StateDone: the final status is
// always recomputed.
func StateOf(rec *Record) State {
	switch {
	case Executed(rec):
		return StateExecuted
	case rec.SPARQLQuery != "":
		return StateSynthesized
	case rec.JournalQID != "":
		return StateResolved
	case rec.Year != 0:
		return StateNormalized
	case rec.AIResponse != nil:
		return StateExtracted
	default:
		return StateUnextracted
	}
}

// Transition is one edge of the pipeline. Its step reports whether the
// record reached To; on failure the step has written the reason to Status.
// ready reports whether the inputs the step reads are present.
type Transition struct {
	From  State
	To    State
	Name  string
	step  func(r *Resolver, ctx context.Context, rec *Record) bool
	ready func(rec *Record) bool
}

// Ready reports whether rec carries the inputs t reads.
func (t Transition) Ready(rec *Record) bool {
	return t.ready != nil && t.ready(rec)
}

var transitions = []Transition{
	{From: StateUnextracted, To: StateExtracted, Name: "extract", step: (*Resolver).extract, ready: func(*Record) bool { return true }},
	{From: StateExtracted, To: StateNormalized, Name: "normalize", step: (*Resolver).normalize, ready: hasAIResponse},
	{From: StateNormalized, To: StateResolved, Name: "resolve", step: (*Resolver).resolve, ready: hasJournalName},
	{From: StateResolved, To: StateSynthesized, Name: "synthesize", step: (*Resolver).synthesize, ready: hasQueryParams},
	{From: StateSynthesized, To: StateExecuted, Name: "execute", step: (*Resolver).execute, ready: hasQuery},
	{From: StateExecuted, To: StateDone, Name: "finish", step: (*Resolver).finish, ready: Executed},
}

func hasAIResponse(rec *Record) bool { return rec.AIResponse != nil }
func hasQuery(rec *Record) bool { return rec.SPARQLQuery != "" }

// hasJournalName also holds for complete extracted data with a blank
// journal, so resolve can report the missing name.
func hasJournalName(rec *Record) bool {
	return rec.JournalName != "" || rec.AIResponse.IsValid()
}

func hasQueryParams(rec *Record) bool {
	return rec.JournalQID != "" && rec.Year != 0 && rec.Volume != "" && rec.StartPage != ""
}

// Transitions returns the pipeline edges in order.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

func transitionFrom(s State) (Transition, bool) {
	for _, t := range transitions {
		if t.From == s {
			return t, true
		}
	}
	return Transition{}, false
}

// transitionsFrom returns the edges from s onwards, in order.
func transitionsFrom(s State) []Transition {
	for i, t := range transitions {
		if t.From == s {
			return transitions[i:]
		}
	}
	return nil
}
