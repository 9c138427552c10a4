// Package legacy imports the old flat-file launcher format into catalog
// entries. The format is line oriented: ";"-prefixed comments, "[section]"
// headers, and key=value bodies. Recognized keys are Func, Parms and
// HitCount; everything else is accumulated but unused.
package legacy

import (
	"bufio"
	"fmt"
	"iter"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"launchbox/model"
)

// Func values that map to something other than a plain Run. The match is
// exact and case sensitive; anything unlisted falls open to Run.
var funcKinds = map[string]model.Kind{
	"Run":               model.KindRun,
	"DynaExpr_Eval":     model.KindExpression,
	"PowerShell":        model.KindExpression,
	"ExitApp":           model.KindBuiltIn,
	"Reload":            model.KindBuiltIn,
	"EditLaunchHK":      model.KindBuiltIn,
	"EditFlyout":        model.KindBuiltIn,
	"RestartComputer":   model.KindBuiltIn,
	"HibernateComputer": model.KindBuiltIn,
	"SleepComputer":     model.KindBuiltIn,
}

// Import returns a lazy sequence of commands parsed from the file at path.
// The file is re-opened every time the sequence is ranged, so the same
// sequence can be consumed more than once and restarts from the beginning.
// A missing file fails here, before any records are produced.
func Import(path string) (iter.Seq[model.Command], error) {
	// Fail fast on a missing file; os.Stat errors wrap fs.ErrNotExist so
	// callers can test for it.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("legacy import: %w", err)
	}

	return func(yield func(model.Command) bool) {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()
		parse(f, yield)
	}, nil
}

type sectionState struct {
	open bool
	name string
	keys map[string]string
}

func (s *sectionState) reset(name string) {
	s.open = true
	s.name = name
	s.keys = make(map[string]string)
}

func parse(f *os.File, yield func(model.Command) bool) {
	var sec sectionState

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "" || strings.HasPrefix(line, ";"):
			continue

		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			if cmd, ok := flush(&sec); ok {
				if !yield(cmd) {
					return
				}
			}
			sec.reset(strings.TrimSpace(line[1 : len(line)-1]))

		case sec.open && strings.Contains(line, "="):
			key, value, _ := strings.Cut(line, "=")
			// Keys are case insensitive; a later duplicate wins.
			sec.keys[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)

		default:
			// Stray content outside a section, or a body line with
			// no "=". Best effort: skip it.
		}
	}

	if cmd, ok := flush(&sec); ok {
		yield(cmd)
	}
}

// flush turns the accumulated section into a command. Sections without a
// Func key produce nothing.
func flush(sec *sectionState) (model.Command, bool) {
	if !sec.open {
		return model.Command{}, false
	}
	fn, ok := sec.keys["func"]
	if !ok {
		return model.Command{}, false
	}

	category, label := splitSectionName(sec.name)
	kind, mapped := funcKinds[fn]
	if !mapped {
		kind = model.KindRun
	}

	cmd := model.Command{
		ID:        uuid.NewString(),
		Label:     label,
		Category:  category,
		Kind:      kind,
		Args:      sec.keys["parms"],
		IsBuiltIn: strings.EqualFold(category, "int"),
	}
	if kind == model.KindExpression {
		cmd.Verb, cmd.Args = deriveExpression(sec.keys["parms"])
	}
	// Hit counts are non-negative; a negative or unparseable value falls
	// back to zero.
	if n, err := strconv.ParseInt(sec.keys["hitcount"], 10, 64); err == nil && n > 0 {
		cmd.HitCount = n
	}
	return cmd, true
}

func splitSectionName(name string) (category, label string) {
	if before, after, found := strings.Cut(name, ":"); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", name
}

// deriveExpression maps a raw Parms value onto a (verb, args) pair. The
// rules mirror the handful of expression shapes the legacy format produced.
func deriveExpression(parms string) (verb, args string) {
	if len(parms) >= 5 && strings.EqualFold(parms[:5], "Send ") {
		return "send", strings.TrimSpace(parms[5:])
	}

	lower := strings.ToLower(parms)
	if strings.HasPrefix(lower, "dllcall") &&
		strings.Contains(lower, "setsuspendstate") &&
		strings.Contains(lower, "int") {
		return "system", suspendArg(lower)
	}

	left, rest := splitFirstSpace(parms)
	return strings.ToLower(left), rest
}

// suspendArg picks hibernate or sleep out of a lowered DllCall expression.
// The first "int" argument of SetSuspendState selects hibernation when 1.
func suspendArg(lower string) string {
	const marker = `, "int", `
	i := strings.Index(lower, marker)
	if i < 0 {
		return "sleep"
	}
	rest := lower[i+len(marker):]
	if strings.HasPrefix(rest, "1") {
		return "hibernate"
	}
	return "sleep"
}

// splitFirstSpace cuts s at its first whitespace boundary. The right side
// is trimmed and empty when there is no whitespace at all.
func splitFirstSpace(s string) (left, right string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	_, width := utf8.DecodeRuneInString(s[i:])
	return s[:i], strings.TrimSpace(s[i+width:])
}
