package hdrview

import "os"

// AccessToken is an opaque capability granting scoped read access to a
// filesystem location outside the normal sandbox. Tokens are created and
// persisted by the external catalog layer; this package only consumes them
// for the duration of one decode.
type AccessToken interface {
	// Resolve materializes the token into a scoped location.
	Resolve() (AccessScope, error)
}

// AccessScope is a resolved token: a path plus a begin/end accessor pair.
type AccessScope interface {
	Path() string
	Begin() error
	End()
}

// Refresher is implemented by tokens that can re-mint a stale resolution.
type Refresher interface {
	Refresh() (AccessToken, error)
}

// readFileScoped reads the file bytes, holding scoped access for exactly
// the span of the read. A stale token gets a single refresh attempt;
// after that the already-resolved path is used best-effort.
func readFileScoped(path string, tok AccessToken) ([]byte, error) {
	if tok == nil {
		return os.ReadFile(path)
	}
	scope, err := tok.Resolve()
	if err != nil {
		if r, ok := tok.(Refresher); ok {
			if fresh, rerr := r.Refresh(); rerr == nil {
				scope, err = fresh.Resolve()
			}
		}
	}
	if err != nil || scope == nil {
		return os.ReadFile(path)
	}
	if err := scope.Begin(); err != nil {
		return os.ReadFile(path)
	}
	defer scope.End()
	return os.ReadFile(scope.Path())
}
