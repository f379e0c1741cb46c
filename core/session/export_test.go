package session

// SetIDFunc swaps the id source and returns a func restoring it.
func SetIDFunc(f func() string) (restore func()) {
	prev := newID
	newID = f
	return func() { newID = prev }
}
