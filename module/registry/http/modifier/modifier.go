package modifier

import (
	"net/http"
)

// Modifier modifies request
type Modifier interface {
	Modify(*http.Request) error
}

// Func adapts a plain function to a Modifier.
type Func func(*http.Request) error

func (f Func) Modify(req *http.Request) error {
	return f(req)
}

// UserAgent sets the User-Agent header on every request.
func UserAgent(agent string) Modifier {
	return Func(func(req *http.Request) error {
		if agent != "" {
			req.Header.Set("User-Agent", agent)
		}
		return nil
	})
}
