package jspy

import (
	"sort"
	"strings"
)

// Completion is one candidate returned by AutocompletionList.
type Completion struct {
	Name    string
	Value   string
	Caption string
	Meta    string
	Score   int
}

const (
	scoreContext = 300
	scoreGlobal  = 200
	scoreBuiltin = 100
	scoreMember  = 250
)

var (
	arrayMethodNames  = []string{"append", "filter", "includes", "indexOf", "join", "length", "map", "pop", "push", "slice"}
	stringMethodNames = []string{"endswith", "includes", "length", "lower", "replace", "split", "startswith", "strip", "upper"}
	timeMethodNames   = []string{"addDays", "day", "format", "hour", "minute", "month", "second", "year"}
)

// AutocompletionList returns the names that complete path. A path without a
// dot completes top-level names from vars, the globals and the builtins; a
// dotted path completes the members of the value the prefix resolves to.
func (in *Interpreter) AutocompletionList(path string, vars map[string]Value) []Completion {
	in.mu.RLock()
	layers := []struct {
		values map[string]Value
		score  int
	}{
		{in.builtins, scoreBuiltin},
		{in.globals, scoreGlobal},
		{vars, scoreContext},
	}
	merged := make(map[string]Value)
	scores := make(map[string]int)
	for _, layer := range layers {
		for name, val := range layer.values {
			merged[name] = val
			scores[name] = layer.score
		}
	}
	in.mu.RUnlock()

	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		var out []Completion
		for name, val := range merged {
			if strings.HasPrefix(name, path) {
				out = append(out, newCompletion(name, val.Kind().String(), scores[name]))
			}
		}
		return sortCompletions(out)
	}

	base, ok := resolveCompletionBase(merged, path[:dot])
	if !ok {
		return nil
	}
	prefix := path[dot+1:]
	var out []Completion
	addNames := func(names []string, meta string) {
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				out = append(out, newCompletion(name, meta, scoreMember))
			}
		}
	}
	switch base.Kind() {
	case KindObject:
		base.Object().Each(func(name string, val Value) {
			if strings.HasPrefix(name, prefix) {
				out = append(out, newCompletion(name, val.Kind().String(), scoreMember))
			}
		})
	case KindArray:
		addNames(arrayMethodNames, "method")
	case KindString:
		addNames(stringMethodNames, "method")
	case KindTime:
		addNames(timeMethodNames, "method")
	}
	return sortCompletions(out)
}

func resolveCompletionBase(names map[string]Value, path string) (Value, bool) {
	segments := strings.Split(path, ".")
	cur, ok := names[segments[0]]
	if !ok {
		return NewNull(), false
	}
	for _, segment := range segments[1:] {
		if cur.Kind() != KindObject {
			return NewNull(), false
		}
		if cur, ok = cur.Object().Get(segment); !ok {
			return NewNull(), false
		}
	}
	return cur, true
}

func newCompletion(name, meta string, score int) Completion {
	return Completion{Name: name, Value: name, Caption: name, Meta: meta, Score: score}
}

func sortCompletions(out []Completion) []Completion {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}
