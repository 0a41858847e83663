package models

// Intensity is the ordinal intensity rating of an environmental or social impact.
type Intensity string

const (
	IntensityLow    Intensity = "LOW"
	IntensityMedium Intensity = "MEDIUM"
	IntensityHigh   Intensity = "HIGH"
)

// Valid reports whether the intensity is one of the enumerated values.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Probability is the ordinal likelihood rating of an impact occurring.
type Probability string

const (
	ProbabilityUnlikely     Probability = "UNLIKELY"
	ProbabilityLikely       Probability = "LIKELY"
	ProbabilityHighlyLikely Probability = "HIGHLY_LIKELY"
	ProbabilityDefinite     Probability = "DEFINITE"
)

// Valid reports whether the probability is one of the enumerated values.
func (p Probability) Valid() bool {
	switch p {
	case ProbabilityUnlikely, ProbabilityLikely, ProbabilityHighlyLikely, ProbabilityDefinite:
		return true
	}
	return false
}

// Significance is the qualitative risk category derived from intensity and
// probability. It is never set directly by clients; the assessment service
// recomputes it whenever either input changes.
type Significance string

const (
	// SignificanceNone means the assessment has not been evaluated yet
	// (one or both inputs missing or out of domain).
	SignificanceNone Significance = ""
	// SignificanceUnclassified marks the LOW x DEFINITE combination, which
	// the classification matrix has never assigned a category. It is kept
	// distinct from SignificanceNone so reports can tell "not yet
	// evaluated" apart from "evaluated but unmapped".
	SignificanceUnclassified Significance = "UNCLASSIFIED"
	SignificanceLow          Significance = "LOW_SIGNIFICANCE"
	SignificanceSignificant  Significance = "SIGNIFICANT"
	SignificanceVery         Significance = "VERY_SIGNIFICANT"
)

// Label returns the display label used on printed assessment reports.
func (s Significance) Label() string {
	switch s {
	case SignificanceLow:
		return "Pouco Significativo"
	case SignificanceSignificant:
		return "Significativo"
	case SignificanceVery:
		return "Muito Significativo"
	}
	return ""
}

// Severity maps the significance to an ordinal rank for sorting and
// monotonicity checks. None and Unclassified both rank lowest.
func (s Significance) Severity() int {
	switch s {
	case SignificanceLow:
		return 1
	case SignificanceSignificant:
		return 2
	case SignificanceVery:
		return 3
	}
	return 0
}

// Classify derives the significance category from an intensity and a
// probability rating. It is pure and total: every combination of the
// enumerated values maps to exactly one result.
//
// Missing or out-of-domain inputs yield SignificanceNone, meaning the
// assessment is not yet evaluated. The LOW x DEFINITE cell yields
// SignificanceUnclassified (see the constant's doc).
func Classify(intensity Intensity, probability Probability) Significance {
	if !intensity.Valid() || !probability.Valid() {
		return SignificanceNone
	}

	switch intensity {
	case IntensityLow:
		switch probability {
		case ProbabilityUnlikely, ProbabilityLikely:
			return SignificanceLow
		case ProbabilityHighlyLikely:
			return SignificanceSignificant
		case ProbabilityDefinite:
			return SignificanceUnclassified
		}
	case IntensityMedium:
		switch probability {
		case ProbabilityUnlikely:
			return SignificanceLow
		case ProbabilityLikely, ProbabilityHighlyLikely:
			return SignificanceSignificant
		case ProbabilityDefinite:
			return SignificanceVery
		}
	case IntensityHigh:
		switch probability {
		case ProbabilityUnlikely, ProbabilityLikely:
			return SignificanceSignificant
		case ProbabilityHighlyLikely, ProbabilityDefinite:
			return SignificanceVery
		}
	}

	return SignificanceNone
}
