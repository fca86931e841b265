package ports

// Interactor is how the curation core talks to whoever is presenting it.
// Remote failures are reported through Error at the point they happen.
type Interactor interface {
	Output(message string)
	Warning(message string)
	Error(message string, err error)
	Confirm(message string) bool
	StartSpinner(message string)
	StopSpinner(success bool, message string)
}

// Silent discards everything and confirms nothing
type Silent struct{}

func (Silent) Output(string) {}
func (Silent) Warning(string) {}
func (Silent) Error(string, error) {}
func (Silent) Confirm(string) bool { return false }
func (Silent) StartSpinner(string) {}
func (Silent) StopSpinner(bool, string) {}
