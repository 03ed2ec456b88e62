package nodelist

import (
	"strconv"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// MaxHosts bounds the number of hosts a single node list may expand to.
const MaxHosts = 1 << 16

// Expand returns the hostnames denoted by s in input order.
// An empty or blank s yields no hosts and no error.
//
// Malformed notation (unbalanced or nested brackets, empty range items,
// non-integer bounds, descending ranges) and expansions beyond [MaxHosts]
// return an error with code [errors.ErrCodeInvalidRange].
func Expand(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	groups, err := splitGroups(s)
	if err != nil {
		return nil, err
	}

	var hosts []string
	for _, g := range groups {
		expanded, err := expandGroup(g, MaxHosts-len(hosts))
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, expanded...)
	}
	return hosts, nil
}

// IsRange reports whether s uses bracket notation or lists several groups,
// i.e. whether it may denote more than one host.
func IsRange(s string) bool {
	return strings.ContainsAny(s, "[,")
}

// splitGroups splits s at commas that are not enclosed in brackets.
func splitGroups(s string) ([]string, error) {
	var (
		groups []string
		depth  int
		start  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			if depth > 0 {
				return nil, errors.New(errors.ErrCodeInvalidRange, "nested bracket at offset %d in %q", i, s)
			}
			depth++
		case ']':
			if depth == 0 {
				return nil, errors.New(errors.ErrCodeInvalidRange, "unmatched ']' at offset %d in %q", i, s)
			}
			depth--
		case ',':
			if depth == 0 {
				groups = append(groups, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.New(errors.ErrCodeInvalidRange, "unclosed '[' in %q", s)
	}
	groups = append(groups, s[start:])

	for _, g := range groups {
		if strings.TrimSpace(g) == "" {
			return nil, errors.New(errors.ErrCodeInvalidRange, "empty host group in %q", s)
		}
	}
	return groups, nil
}

// expandGroup expands one bracket-balanced group. The suffix after the first
// bracket pair is expanded recursively and combined with every number.
func expandGroup(g string, budget int) ([]string, error) {
	open := strings.IndexByte(g, '[')
	if open < 0 {
		if budget < 1 {
			return nil, errors.New(errors.ErrCodeInvalidRange, "more than %d hosts", MaxHosts)
		}
		return []string{g}, nil
	}
	closing := open + strings.IndexByte(g[open:], ']')
	prefix, body, suffix := g[:open], g[open+1:closing], g[closing+1:]

	nums, err := parseRanges(body, budget)
	if err != nil {
		return nil, err
	}

	tails := []string{""}
	if suffix != "" {
		tails, err = expandGroup(suffix, budget/len(nums))
		if err != nil {
			return nil, err
		}
	}

	hosts := make([]string, 0, len(nums)*len(tails))
	for _, n := range nums {
		head := prefix + strconv.Itoa(n)
		for _, t := range tails {
			hosts = append(hosts, head+t)
		}
	}
	return hosts, nil
}

// parseRanges parses "1-3,5" into [1 2 3 5].
func parseRanges(body string, budget int) ([]int, error) {
	if body == "" {
		return nil, errors.New(errors.ErrCodeInvalidRange, "empty brackets")
	}

	var nums []int
	for _, item := range strings.Split(body, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, errors.New(errors.ErrCodeInvalidRange, "empty range item in [%s]", body)
		}

		lo, hi, isRange := strings.Cut(item, "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidRange, "bad number %q in [%s]", lo, body)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(hi); err != nil {
				return nil, errors.New(errors.ErrCodeInvalidRange, "bad number %q in [%s]", hi, body)
			}
			if last < first {
				return nil, errors.New(errors.ErrCodeInvalidRange, "descending range %s", item)
			}
		}

		// first >= 0 and last >= first, so last-first does not overflow.
		if last-first >= budget-len(nums) {
			return nil, errors.New(errors.ErrCodeInvalidRange, "more than %d hosts", MaxHosts)
		}
		for i := 0; i <= last-first; i++ {
			nums = append(nums, first+i)
		}
	}
	return nums, nil
}
