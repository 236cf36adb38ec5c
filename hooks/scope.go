package hooks

import "strings"

// Scope is a path-like tag attached to pipeline registrations. Segments
// are joined with ':' ("plugins", "plugins:myplugin"). The zero Scope
// is global: entries registered under it are visible everywhere and are
// never removed by scoped clears.
type Scope string

// NoScope is the global scope.
const NoScope Scope = ""

// Child returns the scope nested one level under s.
func (s Scope) Child(name string) Scope {
	if s == NoScope {
		return Scope(name)
	}
	return Scope(string(s) + ":" + name)
}

// visibleTo reports whether an entry registered under s matches the
// query scope q. Unscoped entries are always visible; the empty query
// is the apply-everywhere default; otherwise the match is exact.
func (s Scope) visibleTo(q Scope) bool {
	return s == NoScope || q == NoScope || s == q
}

// within reports whether s equals q or is nested under it. Used by
// clear operations, which match whole subtrees so that clearing
// "plugins" also removes every "plugins:*" entry.
func (s Scope) within(q Scope) bool {
	if s == q {
		return true
	}
	if q == NoScope {
		return false
	}
	return strings.HasPrefix(string(s), string(q)+":")
}

// scopeStack is the ambient scope stack. Entering a scope nests it
// under the current one; registrations made without an explicit scope
// pick up the top of the stack.
type scopeStack struct {
	scopes []Scope
}

// current returns the top of the stack, or NoScope when empty.
func (st *scopeStack) current() Scope {
	if len(st.scopes) == 0 {
		return NoScope
	}
	return st.scopes[len(st.scopes)-1]
}

// enter pushes a scope nested under the current one and returns the
// exit function. Callers must defer the exit so the pop runs even when
// the scoped work fails.
func (st *scopeStack) enter(name string) func() {
	st.scopes = append(st.scopes, st.current().Child(name))
	depth := len(st.scopes)
	return func() {
		if len(st.scopes) >= depth {
			st.scopes = st.scopes[:depth-1]
		}
	}
}

// reset drops every entered scope.
func (st *scopeStack) reset() {
	st.scopes = nil
}
