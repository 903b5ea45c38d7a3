package pass

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected is returned by Order when the declared input/output labels
// form a dependency cycle. This is a configuration error raised before any
// pass executes, never a recoverable runtime condition.
var ErrCycleDetected = errors.New("pass: dependency cycle detected")

// Order resolves the execution order of passes from their declared labels.
// An edge runs from pass A to pass B when A declares an output label that B
// declares as an input, so producers always execute before consumers. Passes
// with no ordering constraint between them keep their declaration order
// (first-registered-first-run), making the result deterministic.
//
// A label consumed by a pass that no pass produces creates no edge — such
// resources are expected to be provided by the renderer itself (for example
// the camera uniform) or to fail lookup at execution time.
//
// Parameters:
//   - passes: the passes in declaration order
//
// Returns:
//   - []RenderPass: the passes in a producer-before-consumer order
//   - error: ErrCycleDetected (wrapped with the cycle members) if no such order exists
func Order(passes []RenderPass) ([]RenderPass, error) {
	n := len(passes)
	if n <= 1 {
		return passes, nil
	}

	// Index producers by output label. Multiple producers of one label are
	// allowed; every producer then precedes every consumer of that label.
	producers := make(map[string][]int)
	for i, p := range passes {
		for _, out := range p.Outputs() {
			producers[out.Label] = append(producers[out.Label], i)
		}
	}

	// Build the edge set producer → consumer. A pass declaring the same label
	// as both input and output (read-modify-write) does not depend on itself.
	edges := make([]map[int]bool, n)
	indegree := make([]int, n)
	for consumer, p := range passes {
		for _, in := range p.Inputs() {
			for _, producer := range producers[in.Label] {
				if producer == consumer {
					continue
				}
				if edges[producer] == nil {
					edges[producer] = make(map[int]bool)
				}
				if !edges[producer][consumer] {
					edges[producer][consumer] = true
					indegree[consumer]++
				}
			}
		}
	}

	// Kahn's algorithm. The ready set is scanned in ascending declaration
	// index, which yields the stable declaration-order tie-break.
	ordered := make([]RenderPass, 0, n)
	done := make([]bool, n)
	for len(ordered) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			// Every unprocessed pass still has an unmet dependency.
			remaining := make([]string, 0, n-len(ordered))
			for i := 0; i < n; i++ {
				if !done[i] {
					remaining = append(remaining, passes[i].Name())
				}
			}
			return nil, fmt.Errorf("%w: involving passes [%s]", ErrCycleDetected, strings.Join(remaining, ", "))
		}

		done[next] = true
		ordered = append(ordered, passes[next])
		for consumer := range edges[next] {
			indegree[consumer]--
		}
	}

	return ordered, nil
}
