package shared

// MessageType identifies a message sent from the server to a terminal
// client.
type MessageType int

const (
	MessageTypeText    MessageType = 0 // program output
	MessageTypeError   MessageType = 1 // diagnostics and failures
	MessageTypePrompt  MessageType = 2 // the program waits for input
	MessageTypeState   MessageType = 3 // YAML snapshot of the interpreter
	MessageTypeEnd     MessageType = 4 // run finished, Content holds the exit status
	MessageTypeSession MessageType = 5 // session id after connect
)

// Message is one WebSocket frame from server to client.
type Message struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`

	// For SESSION
	SessionID string `json:"sessionId,omitempty"`
	// For END, when the run was journaled
	RunID string `json:"runId,omitempty"`
}

// Request kinds sent by clients.
const (
	RequestRun   = "run"
	RequestInput = "input"
	RequestStop  = "stop"
	RequestState = "state"
)

// Request is one WebSocket frame from client to server. A run request
// names a stored script or carries the source itself.
type Request struct {
	Type    string `json:"type"`
	Script  string `json:"script,omitempty"`
	Source  string `json:"source,omitempty"`
	Content string `json:"content,omitempty"`
}
