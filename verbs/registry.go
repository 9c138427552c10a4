// Package verbs holds the named executable behaviors an expression command
// can dispatch to. Handlers are registered once at startup; lookup is by
// case-insensitive verb name at execute time.
package verbs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ErrDuplicateVerb is returned when two handlers claim the same verb name.
var ErrDuplicateVerb = errors.New("duplicate verb")

// Handler is one executable verb.
type Handler interface {
	// Verb returns the dispatch key. Compared case-insensitively.
	Verb() string
	// RequiresTrust reports whether the handler may only run when the
	// caller is trusted. The gate is enforced by the registry, not by
	// the handler itself.
	RequiresTrust() bool
	Execute(ctx context.Context, args string) error
}

// Registry resolves verb names to handlers and runs dispatch expressions.
type Registry struct {
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewRegistry builds a registry from the given handlers. Two handlers with
// the same verb (case-insensitive) is a configuration error and fails
// construction.
func NewRegistry(logger *zap.Logger, handlers ...Handler) (*Registry, error) {
	r := &Registry{
		handlers: make(map[string]Handler, len(handlers)),
		logger:   logger,
	}
	for _, h := range handlers {
		key := strings.ToLower(h.Verb())
		if _, exists := r.handlers[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVerb, key)
		}
		r.handlers[key] = h
	}
	return r, nil
}

// Resolve returns the handler for verb, or false when none is registered.
func (r *Registry) Resolve(verb string) (Handler, bool) {
	h, ok := r.handlers[strings.ToLower(verb)]
	return h, ok
}

// Dispatch splits expression into verb and args and runs the matching
// handler. Unknown verbs, the trust gate, and handler failures all come back
// as false; nothing a handler does propagates as a fault to the caller.
func (r *Registry) Dispatch(ctx context.Context, expression string, trusted bool) bool {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false
	}

	verb, args := splitExpression(expression)
	h, ok := r.Resolve(verb)
	if !ok {
		r.logger.Debug("unknown verb", zap.String("verb", verb))
		return false
	}
	if h.RequiresTrust() && !trusted {
		r.logger.Warn("untrusted caller blocked", zap.String("verb", verb))
		return false
	}

	if err := r.invoke(ctx, h, args); err != nil {
		r.logger.Debug("verb failed", zap.String("verb", verb), zap.Error(err))
		return false
	}
	return true
}

// invoke shields the caller from handler panics as well as errors.
func (r *Registry) invoke(ctx context.Context, h Handler, args string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h.Execute(ctx, args)
}

// splitExpression cuts at the first whitespace boundary. The args side is
// trimmed and empty when the expression is a bare verb.
func splitExpression(s string) (verb, args string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	_, width := utf8.DecodeRuneInString(s[i:])
	return s[:i], strings.TrimSpace(s[i+width:])
}
