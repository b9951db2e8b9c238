package persist

// Option configures a Session.
type Option func(*Session)

// WithObserver reports session progress to o.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.obs = o
		}
	}
}

// WithAtomicWrites wraps the four table writes in one transaction that is
// rolled back when any of them fails.
func WithAtomicWrites(on bool) Option {
	return func(s *Session) { s.atomic = on }
}

// WithOpener replaces sqlx.ConnectContext, mainly for tests.
func WithOpener(open Opener) Option {
	return func(s *Session) {
		if open != nil {
			s.open = open
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.runID = id
		}
	}
}
