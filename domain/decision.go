package domain

import "fmt"

// Decision is the per-message outcome of the moderation engine. It lives for
// exactly one message event and is never persisted.
type Decision int

const (
	Allow Decision = iota
	Warn
	Retract
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "ALLOW"
	case Warn:
		return "WARN"
	case Retract:
		return "RETRACT"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Severity selects the corrective action applied to non-owner posts. One
// switch, one code path; Warn stays the default because it cannot destroy
// content on a wrong ownership resolution.
type Severity string

const (
	SeverityWarn    Severity = "warn"
	SeverityRetract Severity = "retract"
)

func ParseSeverity(raw string) (Severity, error) {
	switch Severity(raw) {
	case SeverityWarn:
		return SeverityWarn, nil
	case SeverityRetract:
		return SeverityRetract, nil
	}
	return "", fmt.Errorf("ENFORCEMENT_MODE must be %q or %q, got %q",
		SeverityWarn, SeverityRetract, raw)
}

// Corrective maps the configured severity to the decision for a non-owner
// top-level post.
func (s Severity) Corrective() Decision {
	if s == SeverityRetract {
		return Retract
	}
	return Warn
}
