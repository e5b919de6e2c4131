package report

// GateDecision is the period-close gating outcome over a set of reports.
type GateDecision struct {
	Allowed  bool        `json:"allowed"`
	Blocking []Violation `json:"blocking,omitempty"`
}

// GatePeriodClose evaluates whether a period may close given the reports
// produced by the integrity and policy checkers. Close is blocked on any
// structural or policy violation; compliance violations and warnings do
// not block close (they gate governance and tax workflows instead).
func GatePeriodClose(reports ...Report) GateDecision {
	var blocking []Violation

	for _, r := range reports {
		for _, v := range r.Violations {
			if v.Severity == SeverityStructural || v.Severity == SeverityPolicy {
				blocking = append(blocking, v)
			}
		}
	}

	return GateDecision{
		Allowed:  len(blocking) == 0,
		Blocking: blocking,
	}
}
