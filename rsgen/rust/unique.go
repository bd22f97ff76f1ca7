package rust

import "strconv"

// UniqueNames allocates collision-free function names within one scope.
// The first use of a name returns it unchanged; the N-th repeat returns name_N.
type UniqueNames map[string]int

// Unique returns a name for the next use of name.
func (u UniqueNames) Unique(name string) string {
	n := u[name]
	u[name] = n + 1
	if n == 0 {
		return name
	}
	return name + "_" + strconv.Itoa(n)
}
