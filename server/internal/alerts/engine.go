package alerts

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/config"
)

// Alert is one rule that holds for one production step.
type Alert struct {
	ID       string  `json:"id"`
	RuleName string  `json:"rule_name"`
	Step     string  `json:"step"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value"`
}

// Engine evaluates alert rules against computed tables.
// An Engine with no rules is valid; Evaluate then returns nothing.
type Engine struct {
	mu    sync.RWMutex
	rules []config.AlertRule
}

// New creates an Engine from the alert configuration.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{rules: cfg.Rules}
}

// Rules returns the number of configured rules.
func (e *Engine) Rules() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rules)
}

// SetRules replaces the rule set, e.g. after a config reload.
// Evaluations already running keep the rules they started with.
func (e *Engine) SetRules(cfg config.AlertsConfig) {
	e.mu.Lock()
	e.rules = cfg.Rules
	e.mu.Unlock()
	slog.Info("alerts: rules updated", "count", len(cfg.Rules))
}

// Evaluate tests every rule against every row of t and returns the alerts
// that fire, grouped by row in table order and by rule in config order.
func (e *Engine) Evaluate(t types.Table) []Alert {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	out := make([]Alert, 0)
	if len(rules) == 0 {
		return out
	}

	for i, r := range t {
		for _, rule := range rules {
			fires, value := evalCondition(rule.Condition, r)
			if !fires {
				continue
			}
			sev := rule.Severity
			if sev == "" {
				sev = "warning"
			}
			out = append(out, Alert{
				ID:       fmt.Sprintf("%s:%s:%d", rule.Name, r.Step, i),
				RuleName: rule.Name,
				Step:     r.Step,
				Severity: sev,
				Value:    value,
				Message: fmt.Sprintf("[%s] %s fired on step %s: %s (value %.4g)",
					sev, rule.Name, r.Step, rule.Condition, value),
			})
		}
	}
	if len(out) > 0 {
		slog.Debug("alerts: rules fired", "count", len(out), "rows", len(t))
	}
	return out
}
