package report

// Severity classifies a violation by how it must be resolved.
type Severity string

const (
	// SeverityStructural marks ledger-integrity defects (debits≠credits,
	// orphaned entries, missing account references). Always blocks period
	// close; never auto-corrected.
	SeverityStructural Severity = "STRUCTURAL"
	// SeverityPolicy marks allocation-policy breaches (cash rate out of
	// bounds, per-member ceiling exceeded). Blocks governance approval but
	// does not corrupt the ledger.
	SeverityPolicy Severity = "POLICY"
	// SeverityCompliance marks regulatory findings (missing DRO/QIO,
	// negative balance without DRO). Requires an operating-agreement fix,
	// not a code fix.
	SeverityCompliance Severity = "COMPLIANCE"
)

// Violation is a single finding produced by a checker. Every violation
// carries a machine code, expected/actual values, and remediation text so
// the governance UI can render it without interpreting messages.
type Violation struct {
	Code        string   `json:"code"`
	Severity    Severity `json:"severity"`
	Field       string   `json:"field,omitempty"`
	Message     string   `json:"message"`
	Expected    string   `json:"expected,omitempty"`
	Actual      string   `json:"actual,omitempty"`
	Remediation string   `json:"remediation,omitempty"`
	Citation    string   `json:"citation,omitempty"`
}

// Warning is an informational finding that never blocks any workflow.
type Warning struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// TestResult records the outcome of a named check pass, whether or not it
// produced findings. Audit trails want to see that a test ran, not only
// that it failed.
type TestResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report is the uniform result contract returned by every checker in this
// library. Checkers accumulate findings and return the report as a value;
// they never raise on a finding. Only malformed-input shape errors surface
// as Go errors.
type Report struct {
	Violations  []Violation  `json:"violations"`
	Warnings    []Warning    `json:"warnings"`
	TestResults []TestResult `json:"testResults"`
}

// AddViolation appends a violation to the report.
func (r *Report) AddViolation(v Violation) {
	r.Violations = append(r.Violations, v)
}

// AddWarning appends a warning to the report.
func (r *Report) AddWarning(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

// AddTestResult records the outcome of a check pass.
func (r *Report) AddTestResult(t TestResult) {
	r.TestResults = append(r.TestResults, t)
}

// Merge appends all findings from other into r.
func (r *Report) Merge(other Report) {
	r.Violations = append(r.Violations, other.Violations...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.TestResults = append(r.TestResults, other.TestResults...)
}

// Valid reports whether the report carries no violations. Warnings do not
// affect validity.
func (r Report) Valid() bool {
	return len(r.Violations) == 0
}

// HasCode reports whether any violation carries the given machine code.
func (r Report) HasCode(code string) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}

	return false
}

// BySeverity returns the violations matching the given severity.
func (r Report) BySeverity(severity Severity) []Violation {
	var matched []Violation

	for _, v := range r.Violations {
		if v.Severity == severity {
			matched = append(matched, v)
		}
	}

	return matched
}
