package gitutil

import "fmt"

// AccessError reports a failure to read from a git repository: the path is
// not a repository, a revision cannot be resolved, or history cannot be
// walked. Callers surface it to the user and exit nonzero.
type AccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("git access error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
