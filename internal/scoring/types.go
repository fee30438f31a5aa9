package scoring

// Kind selects which scoring path and threshold set applies to an input.
type Kind string

const (
	KindText  Kind = "text"
	KindBytes Kind = "bytes"
)

// Status is the coarse verdict label.
type Status string

const (
	StatusReal       Status = "real"
	StatusSuspicious Status = "suspicious"
	StatusFake       Status = "fake"
)

// TimelineSegments is the fixed number of per-segment scores in every result.
const TimelineSegments = 20

// Input is a single piece of content to analyze. Exactly one of Text or Data is
// meaningful, depending on Kind. Filename is only consulted for the name heuristic.
type Input struct {
	Kind     Kind
	Text     string
	Data     []byte
	Filename string
}

// TextInput builds a text input.
func TextInput(text, filename string) Input {
	return Input{Kind: KindText, Text: text, Filename: filename}
}

// BytesInput builds a binary input (image, video or anything else).
func BytesInput(data []byte, filename string) Input {
	return Input{Kind: KindBytes, Data: data, Filename: filename}
}

func (in Input) payload() []byte {
	if in.Kind == KindText {
		return []byte(in.Text)
	}
	return in.Data
}

// Score is the scorer output. KnownEvent is set when the text matched the allow-list,
// in which case Value is the fixed override score.
type Score struct {
	Value      float64
	KnownEvent bool
	Event      string
}

// Result is the flat verdict record returned to callers.
type Result struct {
	Status     Status    `json:"status"`
	Confidence float64   `json:"confidence"`
	Reasons    []string  `json:"reasons"`
	Timeline   []float64 `json:"timeline"`
}
