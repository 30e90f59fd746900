package models

type Language string

const (
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
)

// DefaultLanguage is used when a create request omits the language.
const DefaultLanguage = LangJavaScript

// User is the public view of one connected participant. The ID is the
// participant's connection id and is meaningless after disconnect.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

/*** REST surface ***/

type CreateSessionRequest struct {
	Language Language `json:"language"`
}

type CreateSessionResponse struct {
	SessionID string   `json:"sessionId"`
	Language  Language `json:"language"`
	Code      string   `json:"code"`
}

type SessionResponse struct {
	SessionID string   `json:"sessionId"`
	Language  Language `json:"language"`
	Code      string   `json:"code"`
	Users     []User   `json:"users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type RunRequest struct {
	Language Language `json:"language"`
	Code     string   `json:"code"`
}

type RunResult struct {
	Succeeded bool   `json:"succeeded"`
	Output    string `json:"output"`
}

/*** Real-time event surface ***/

// WSFrame is the envelope for every message on a session connection.
// Client types: "join", "code-change", "language-change", "run".
// Server types: "joined", "participant-joined", "participants", "code-update",
// "language-update", "participant-left", "run-result", "error".
type WSFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type JoinRequest struct {
	SessionID string `json:"sessionId"`
	UserName  string `json:"userName"`
}

type JoinedPayload struct {
	SessionID string   `json:"sessionId"`
	Language  Language `json:"language"`
	Code      string   `json:"code"`
	Users     []User   `json:"users"`
}

// CodeChange keeps Code untyped: a payload whose code field is not a string
// is dropped without an error frame.
type CodeChange struct {
	SessionID string `json:"sessionId"`
	Code      any    `json:"code"`
}

type LanguageChange struct {
	SessionID string   `json:"sessionId"`
	Language  Language `json:"language"`
}

type LanguageUpdate struct {
	Language Language `json:"language"`
	Code     string   `json:"code"`
}

/*** Lifecycle events (published to redis) ***/

type SessionCreatedEvent struct {
	SessionID string   `json:"sessionId"`
	Language  Language `json:"language"`
	CreatedAt string   `json:"createdAt"`
}

type SessionEndedEvent struct {
	SessionID   string   `json:"sessionId"`
	Language    Language `json:"language"`
	EndedAt     string   `json:"endedAt"`
	DurationSec int      `json:"durationSeconds"`
}
