package physics

import "errors"

var ErrNilIDSource = errors.New("id source is nil")

// IDSource hands out unique ids. Implementations need not be safe for
// concurrent use unless documented.
type IDSource interface {
	Next() ID
}
