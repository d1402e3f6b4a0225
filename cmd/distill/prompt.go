package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"distill/internal/config"
	"distill/internal/notifications"
)

// prompter reads answers from the command's stdin. One instance is shared
// per command so buffered input is not lost between questions.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) selectTargets(service string, targets []notifications.Target) ([]int, error) {
	fmt.Fprintf(p.out, "Available %s webhooks:\n", service)
	for i, target := range targets {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, target.Name)
	}
	answer, err := p.ask(fmt.Sprintf("Select %s webhooks (e.g. 1,3 or all)", service))
	if err != nil {
		return nil, err
	}
	return notifications.ParseSelection(answer, targets)
}

func (p *prompter) chooseBucket(names []string) (string, error) {
	fmt.Fprintln(p.out, "Available S3 buckets:")
	for i, name := range names {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, name)
	}
	answer, err := p.ask("Choose a destination S3 bucket for your audio file")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(names) {
		return names[n-1], nil
	}
	for _, name := range names {
		if name == answer {
			return name, nil
		}
	}
	return "", fmt.Errorf("invalid bucket selection %q", answer)
}

// resolvePlan builds a delivery plan from --targets, an interactive prompt
// (only with more than one target on a terminal) or the auto-select rule.
func resolvePlan(p *prompter, interactive bool, service, endpoint string, hooks []config.Webhook, selection string) (notifications.Plan, error) {
	targets := notifications.TargetsFromConfig(hooks)
	var indices []int
	var err error
	switch {
	case strings.TrimSpace(selection) != "":
		indices, err = notifications.ParseSelection(selection, targets)
	case len(targets) > 1 && interactive:
		indices, err = p.selectTargets(service, targets)
	}
	if err != nil {
		return notifications.Plan{}, err
	}
	plan := notifications.NewPlan(endpoint, hooks, indices)
	if plan.Multi && len(plan.Selected) == 0 {
		fmt.Fprintf(p.out, "No %s webhooks selected.\n", service)
	}
	return plan, nil
}

// resolveTitle picks the Teams card title: flag, then prompt, then config.
func resolveTitle(p *prompter, interactive bool, flagTitle, configured string) (string, error) {
	if title := strings.TrimSpace(flagTitle); title != "" {
		return title, nil
	}
	if interactive {
		answer, err := p.ask(fmt.Sprintf("Teams card title [%s]", configured))
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
	return configured, nil
}

func parseYesNo(value string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "Y", "YES", "TRUE":
		return true, nil
	case "N", "NO", "FALSE":
		return false, nil
	default:
		return false, fmt.Errorf("expected Y or N, got %q", value)
	}
}
