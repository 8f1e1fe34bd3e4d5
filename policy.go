package dispatch

import (
	"fmt"
	"strings"

	"github.com/ygrebnov/errorc"
)

// Policy selects how a Dispatcher treats a new dispatch while earlier batches are
// still running. Flags are orthogonal and may be combined.
type Policy uint8

const (
	// KeepOldResults lets earlier batches finish and still deliver their results.
	// Without it, every dispatch cancels the batches before it.
	KeepOldResults Policy = 1 << iota

	// QueuedDispatch holds a new batch back while another one runs. Only the most
	// recent held batch is kept; it starts when the running one finalizes.
	QueuedDispatch

	// DelayDispatch waits for a quiet period (Delay) after the last dispatch
	// before submitting. Earlier requests inside the window are dropped.
	DelayDispatch

	// DelayInvalidation stops Invalidate from reaching downstream consumers; they
	// only hear about the dispatcher through NewResults.
	DelayInvalidation
)

var policyNames = []struct {
	flag Policy
	name string
}{
	{KeepOldResults, "KeepOldResults"},
	{QueuedDispatch, "QueuedDispatch"},
	{DelayDispatch, "DelayDispatch"},
	{DelayInvalidation, "DelayInvalidation"},
}

const allPolicies = KeepOldResults | QueuedDispatch | DelayDispatch | DelayInvalidation

// Has reports whether every flag in f is set in p.
func (p Policy) Has(f Policy) bool { return p&f == f }

func (p Policy) String() string {
	if p == 0 {
		return "None"
	}
	var parts []string
	for _, pn := range policyNames {
		if p.Has(pn.flag) {
			parts = append(parts, pn.name)
		}
	}
	if rest := p &^ allPolicies; rest != 0 {
		parts = append(parts, fmt.Sprintf("Policy(%#x)", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// ParsePolicy parses a comma or pipe separated list of flag names. Matching ignores
// case, dashes and underscores, and accepts the short forms keep-old, queued and delay.
// An empty string or "none" yields the zero Policy.
func ParsePolicy(s string) (Policy, error) {
	var p Policy
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	for _, field := range fields {
		key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(field))
		switch key {
		case "", "none":
		case "keepoldresults", "keepold":
			p |= KeepOldResults
		case "queueddispatch", "queued":
			p |= QueuedDispatch
		case "delaydispatch", "delay", "delayed":
			p |= DelayDispatch
		case "delayinvalidation":
			p |= DelayInvalidation
		default:
			return 0, errorc.With(ErrInvalidPolicy, errorc.String("flag", strings.TrimSpace(field)))
		}
	}
	return p, nil
}
