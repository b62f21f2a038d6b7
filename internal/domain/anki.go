package domain

// Anki card flags, set per card. FlagNone clears the flag.
const (
	FlagNone   = 0
	FlagRed    = 1
	FlagOrange = 2
	FlagGreen  = 3
	FlagBlue   = 4
	FlagPink   = 5
	FlagCyan   = 6
	FlagPurple = 7
)

// ValidFlag reports whether f is an Anki flag value
func ValidFlag(f int) bool {
	return f >= FlagNone && f <= FlagPurple
}

// NoteSpec is a note ready to be sent to Anki
type NoteSpec struct {
	DeckName       string
	ModelName      string
	Fields         map[string]string
	Tags           []string
	AllowDuplicate bool
}

// NoteInfo is a note as reported by Anki
type NoteInfo struct {
	NoteID    int64             `json:"note_id"`
	ModelName string            `json:"model_name"`
	Tags      []string          `json:"tags"`
	Fields    map[string]string `json:"fields"`
	CardIDs   []int64           `json:"cards"`
}

// NoteUpdate changes the fields and, when Tags is non-nil, the tags of a note
type NoteUpdate struct {
	NoteID int64
	Fields map[string]string
	Tags   []string
}

// ConnectionStatus describes a reachable Anki instance
type ConnectionStatus struct {
	Permission string   `json:"permission"`
	Version    int      `json:"version"`
	Decks      []string `json:"decks"`
	Models     []string `json:"models"`
}
