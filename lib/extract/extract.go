package extract

// Heuristic field extraction over raw page payloads. Every operation here
// is pure: the same (payload, kind) input always resolves to the same
// Field, which keeps batch runs reproducible. Malformed input never
// produces an error, only a NotFound outcome.

type FieldKind int

const (
	KindTime FieldKind = iota
	KindPrice
	KindDescription
)

func (k FieldKind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindPrice:
		return "price"
	case KindDescription:
		return "description"
	}
	return "unknown"
}

type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeAllDay
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeAllDay:
		return "all_day"
	case OutcomeNotFound:
		return "not_found"
	}
	return "unknown"
}

// Candidate is one possible field value produced by a single pattern.
// PatternID is the index of the pattern in its declaration order, which
// doubles as the tie-break priority.
type Candidate struct {
	Value     string
	PatternID int
	Offset    int
	Score     int
}

// Field is the single arbitration result for one item.
type Field struct {
	Kind    FieldKind
	Outcome Outcome

	// time: "HH:MM"; description: assembled text
	Value string
	// winning candidate score for time extraction
	Confidence int

	// price fields
	Amount   float64
	Range    string
	Currency string
}

func notFound(kind FieldKind) Field {
	return Field{Kind: kind, Outcome: OutcomeNotFound}
}

// Extract applies the pattern set for the requested field kind against
// the raw payload and arbitrates the candidates deterministically.
func Extract(payload []byte, kind FieldKind) Field {
	switch kind {
	case KindTime:
		return extractTime(string(payload))
	case KindPrice:
		return extractPrice(string(payload))
	case KindDescription:
		return extractDescription(payload)
	}
	return notFound(kind)
}
