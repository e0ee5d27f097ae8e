package wager

// Lockable is a record carrying the processing flag of a session.
type Lockable interface {
	Processing() bool
	SetProcessing(bool)
}

// Acquire marks the record as processing. It fails without touching the flag
// when the record is already processing; it never waits.
func Acquire(l Lockable) error {
	if l.Processing() {
		return ErrAlreadyProcessing
	}
	l.SetProcessing(true)
	return nil
}

// Release clears the processing flag. Safe to call on an idle record.
func Release(l Lockable) {
	l.SetProcessing(false)
}

// Guard runs fn with the record acquired and releases it on every exit path,
// panics included. fn is not called when acquisition fails.
func Guard(l Lockable, fn func() error) error {
	if err := Acquire(l); err != nil {
		return err
	}
	defer Release(l)
	return fn()
}
