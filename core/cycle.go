package core

// resolutionStack keeps track of the identifiers being
// constructed on the current call chain.
//
// No identifier occurs twice in the stack, since entering an
// identifier that is already present is exactly a cycle.
type resolutionStack struct {
	ids []string
}

// enter pushes id or reports the cycle it closes. The path of
// the cycle starts at the oldest occurrence of id and ends by
// repeating id.
func (s *resolutionStack) enter(id string) *Error {
	for i, pending := range s.ids {
		if pending != id {
			continue
		}
		path := make([]string, 0, len(s.ids)-i+1)
		path = append(path, s.ids[i:]...)
		path = append(path, id)
		return &Error{Kind: KindCircularDependency, ID: id, Path: path}
	}
	s.ids = append(s.ids, id)
	return nil
}

// exit pops id, it must be deferred right after a successful
// enter so that no failure could leave id on the stack.
func (s *resolutionStack) exit(id string) {
	n := len(s.ids)
	if n == 0 || s.ids[n-1] != id {
		panic("unbalanced exit of " + id)
	}
	s.ids = s.ids[:n-1]
}

func (s *resolutionStack) depth() int {
	return len(s.ids)
}
