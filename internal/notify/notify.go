// Package notify is the single global message slot shown above every view.
package notify

// Surface holds at most one message until it is dismissed.
type Surface struct {
	message string
}

func New() *Surface { return &Surface{} }

// Show replaces whatever message is currently displayed. Empty messages are ignored.
func (s *Surface) Show(message string) {
	if message == "" {
		return
	}
	s.message = message
}

func (s *Surface) Current() (string, bool) {
	return s.message, s.message != ""
}

func (s *Surface) Dismiss() { s.message = "" }
