// Package engine ranks the command catalog against user queries and routes
// selected commands to their execution path.
package engine

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"launchbox/model"
	"launchbox/verbs"
)

// Runner launches a Run-kind target: a path, URI or command line. Supplied
// by the host OS layer.
type Runner interface {
	RunTarget(target string) error
}

// BuiltInSink receives built-in activations. The engine never executes
// built-ins itself; it surfaces the label/args pair to the host.
type BuiltInSink interface {
	NotifyBuiltIn(label, args string)
}

// Engine ties the catalog to the verb registry and the host capabilities.
// The trust flag is fixed at construction.
type Engine struct {
	catalog *Catalog
	verbs   *verbs.Registry
	runner  Runner
	sink    BuiltInSink
	trusted bool
	logger  *zap.Logger

	now func() time.Time // swapped out by tests
}

func New(catalog *Catalog, registry *verbs.Registry, runner Runner, sink BuiltInSink, trusted bool, logger *zap.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		verbs:   registry,
		runner:  runner,
		sink:    sink,
		trusted: trusted,
		logger:  logger,
		now:     time.Now,
	}
}

// Search ranks the catalog against query and returns at most topN results,
// best first. Ties break on ascending label. It never fails: an empty or
// unmatched query simply yields fewer (or zero) results.
func (e *Engine) Search(query string, topN int) []model.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	var results []model.SearchResult
	for _, cmd := range e.catalog.snapshot() {
		match, ok := matchScore(cmd, q)
		if !ok {
			continue
		}
		score := match + frequencyScore(cmd.HitCount) + recencyScore(cmd.LastRunAt, e.now())
		results = append(results, model.SearchResult{Command: cmd, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Command.Label < results[j].Command.Label
	})

	if topN < 0 {
		topN = 0
	}
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// matchScore reports whether cmd is a candidate for the lowercased query
// and, if so, its textual match contribution. An empty query admits every
// command at base zero; frequency and recency still separate them.
func matchScore(cmd model.Command, q string) (float64, bool) {
	if q == "" {
		return 0, true
	}

	label := strings.ToLower(cmd.Label)
	switch {
	case strings.HasPrefix(label, q):
		return 1.0 * float64(len(q)) / float64(len(label)), true
	case strings.Contains(label, q):
		return 0.5 * float64(len(q)) / float64(len(label)), true
	}

	if strings.Contains(strings.ToLower(cmd.Category), q) {
		return 0, true
	}
	for _, alias := range cmd.Aliases {
		a := strings.ToLower(alias)
		switch {
		case strings.HasPrefix(a, q):
			return 1.0 * float64(len(q)) / float64(len(a)), true
		case strings.Contains(a, q):
			return 0.5 * float64(len(q)) / float64(len(a)), true
		}
	}
	return 0, false
}

func frequencyScore(hits int64) float64 {
	return 0.2 * math.Log10(float64(hits)+1)
}

// recencyScore decays with the age of the last run. A future-dated LastRunAt
// (clock skew) inflates the score; kept as-is deliberately.
func recencyScore(lastRun *time.Time, now time.Time) float64 {
	if lastRun == nil {
		return 0
	}
	days := now.Sub(*lastRun).Hours() / 24
	return 0.1 / (1 + days)
}

// Execute runs the command with the given id and reports success. The
// command's hit count and last-run time update exactly once, before
// dispatch and regardless of its outcome, so a false return does not mean
// no state changed. An unknown id is the one case with no mutation at all.
func (e *Engine) Execute(ctx context.Context, id string) bool {
	cmd, ok := e.catalog.touch(id, e.now())
	if !ok {
		e.logger.Debug("execute: unknown command", zap.String("id", id))
		return false
	}

	switch cmd.Kind {
	case model.KindRun:
		if err := e.runner.RunTarget(cmd.Args); err != nil {
			e.logger.Info("run target failed", zap.String("label", cmd.Label), zap.Error(err))
			return false
		}
		return true

	case model.KindExpression:
		return e.verbs.Dispatch(ctx, cmd.Verb+" "+cmd.Args, e.trusted)

	case model.KindBuiltIn:
		e.sink.NotifyBuiltIn(cmd.Label, cmd.Args)
		return true

	default:
		e.logger.Warn("execute: unknown kind", zap.String("label", cmd.Label), zap.Int("kind", int(cmd.Kind)))
		return false
	}
}

// Catalog exposes the engine's catalog so the host can persist usage
// updates after an execute.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}
