package solve

// EventKind tags a point in the engine's lifecycle.
type EventKind string

const (
	EventStart    EventKind = "start"
	EventPass     EventKind = "pass"
	EventAssign   EventKind = "assign"
	EventIterate  EventKind = "iterate"
	EventConverge EventKind = "converge"
	EventDiverge  EventKind = "diverge"
	EventFinish   EventKind = "finish"
)

// Event is a single step in the engine's execution, emitted to a Recorder.
type Event struct {
	Kind      EventKind `json:"kind"`
	Pass      int       `json:"pass,omitempty"`
	Equation  string    `json:"equation,omitempty"`
	Variable  string    `json:"variable,omitempty"`
	Value     float64   `json:"value,omitempty"`
	Residual  float64   `json:"residual,omitempty"`
	Iteration int       `json:"iteration,omitempty"`
}

// Recorder receives engine events. Implementations must tolerate being
// called once per assignment and per iteration of a coupled component.
type Recorder interface {
	Record(ev Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ev Event)

func (f RecorderFunc) Record(ev Event) { f(ev) }
