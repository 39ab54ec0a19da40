package events

// Kind identifies which slider property changed.
type Kind int

const (
	FullExtentChanged Kind = iota
	CurrentExtentChanged
	NumberOfStepsChanged
	StepTimesChanged
	StartStepChanged
	EndStepChanged
)

var kindNames = []string{
	"FullExtentChanged",
	"CurrentExtentChanged",
	"NumberOfStepsChanged",
	"StepTimesChanged",
	"StartStepChanged",
	"EndStepChanged",
}

func (k Kind) String() string {
	if k < FullExtentChanged || k > EndStepChanged {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Event is a property change notice.  It carries no payload; listeners read
// the current state from whoever published it, which is guaranteed to be
// fully updated before the event goes out.
type Event struct {
	Kind Kind
}
