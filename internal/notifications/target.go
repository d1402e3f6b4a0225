package notifications

import (
	"fmt"
	"strconv"
	"strings"

	"distill/internal/config"
)

// Target is one named webhook destination.
type Target struct {
	Name     string
	Endpoint string
}

// Plan is the resolved delivery configuration for one service and one run.
//
// Multi distinguishes the named webhooks list (even when empty) from the
// legacy single-endpoint form. Selected is the subset of Targets to deliver
// to, already filtered by Select.
type Plan struct {
	Endpoint string
	Targets  []Target
	Selected []Target
	Multi    bool
}

// TargetsFromConfig converts configured webhooks to targets, keeping order.
func TargetsFromConfig(hooks []config.Webhook) []Target {
	if hooks == nil {
		return nil
	}
	targets := make([]Target, 0, len(hooks))
	for i, hook := range hooks {
		name := strings.TrimSpace(hook.Name)
		if name == "" {
			name = fmt.Sprintf("Webhook %d", i+1)
		}
		targets = append(targets, Target{Name: name, Endpoint: strings.TrimSpace(hook.Endpoint)})
	}
	return targets
}

// NewPlan builds a plan from a service's configuration and a 0-based selection.
func NewPlan(endpoint string, hooks []config.Webhook, selected []int) Plan {
	plan := Plan{Endpoint: strings.TrimSpace(endpoint)}
	if hooks == nil {
		return plan
	}
	plan.Multi = true
	plan.Targets = TargetsFromConfig(hooks)
	plan.Selected = Select(plan.Targets, selected)
	return plan
}

// Select resolves 0-based indices against targets. Out-of-range indices and
// targets without an endpoint are dropped, duplicates collapse keeping the
// first occurrence. With exactly one configured target and no indices, that
// target is selected automatically.
func Select(targets []Target, indices []int) []Target {
	if len(indices) == 0 && len(targets) == 1 {
		indices = []int{0}
	}
	seen := make(map[int]struct{}, len(indices))
	var out []Target
	for _, idx := range indices {
		if idx < 0 || idx >= len(targets) {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		if targets[idx].Endpoint == "" {
			continue
		}
		out = append(out, targets[idx])
	}
	return out
}

// ParseSelection turns comma-separated input such as "1,3", "Project room, 2"
// or "all" into 0-based indices. Numbers are 1-based positions; anything else
// must match a target name (case-insensitive), so names may contain spaces.
// Out-of-range numbers are passed through so Select can drop them.
func ParseSelection(input string, targets []Target) ([]int, error) {
	var indices []int
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if strings.EqualFold(field, "all") {
			for i := range targets {
				indices = append(indices, i)
			}
			continue
		}
		if n, err := strconv.Atoi(field); err == nil {
			indices = append(indices, n-1)
			continue
		}
		idx := indexByName(targets, field)
		if idx < 0 {
			return nil, fmt.Errorf("unknown webhook %q", field)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

func indexByName(targets []Target, name string) int {
	for i, t := range targets {
		if strings.EqualFold(strings.TrimSpace(t.Name), name) {
			return i
		}
	}
	return -1
}
