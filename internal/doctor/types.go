package doctor

// Status is the result of one check.
type Status int

const (
	// StatusOK means the check passed.
	StatusOK Status = iota
	// StatusWarn means something optional is missing.
	StatusWarn
	// StatusFail means runs will fail until the issue is fixed.
	StatusFail
)

// Check is one diagnostic result.
type Check struct {
	Name   string
	Status Status
	Detail string
	// FixAction describes what Fix would do, if anything.
	FixAction string
}

// Report collects the checks of one doctor run.
type Report struct {
	Checks []Check
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

// Failures returns the number of failed checks.
func (r Report) Failures() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			n++
		}
	}
	return n
}

// Warnings returns the number of checks with warnings.
func (r Report) Warnings() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == StatusWarn {
			n++
		}
	}
	return n
}
