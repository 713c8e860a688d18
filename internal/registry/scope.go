package registry

import "liveweave/internal/live"

// scope holds the bindings visible in one class body; level is the output
// level that body's members are written at.
type scope struct {
	level int
	items []live.ScopeItem
}

type scopeStack struct {
	scopes []scope
}

func (s *scopeStack) push(level int) { s.scopes = append(s.scopes, scope{level: level}) }

func (s *scopeStack) pop() { s.scopes = s.scopes[:len(s.scopes)-1] }

func (s *scopeStack) top() *scope { return &s.scopes[len(s.scopes)-1] }

// add binds name in the innermost scope.
func (s *scopeStack) add(name live.Name, t live.ScopeTarget) {
	top := s.top()
	top.items = append(top.items, live.ScopeItem{Name: name, Target: t})
}

// bindAt binds name only when level is the level of the innermost scope.
func (s *scopeStack) bindAt(level int, name live.Name, t live.ScopeTarget) {
	if s.top().level == level {
		s.add(name, t)
	}
}

// lookup searches innermost scope first, most recent binding first.
func (s *scopeStack) lookup(name live.Name) (live.ScopeTarget, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		items := s.scopes[i].items
		for j := len(items) - 1; j >= 0; j-- {
			if items[j].Name == name {
				return items[j].Target, true
			}
		}
	}
	return live.ScopeTarget{}, false
}

// snapshot flattens the stack outermost first, so scanning it from the end
// gives the same answer as lookup.
func (s *scopeStack) snapshot() []live.ScopeItem {
	var out []live.ScopeItem
	for _, sc := range s.scopes {
		out = append(out, sc.items...)
	}
	return out
}
