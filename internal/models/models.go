package models

import "encoding/json"

// Frame is the wire envelope for every WebSocket message, client- and
// server-bound. Data is decoded per-type by the handlers.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

/*** client → server payloads ***/

type RegisterRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type JoinDocumentRequest struct {
	DocumentID string `json:"documentId"`
}

type LeaveDocumentRequest struct {
	DocumentID string `json:"documentId"`
}

type Cursor struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type CursorUpdateRequest struct {
	DocumentID string `json:"documentId"`
	Cursor     Cursor `json:"cursor"`
}

// DocumentUpdateRequest carries an opaque change set. Changes is relayed
// verbatim; the gateway never inspects it.
type DocumentUpdateRequest struct {
	DocumentID string          `json:"documentId"`
	Changes    json.RawMessage `json:"changes"`
	Version    int64           `json:"version"`
}

// SignalRequest targets a logical user; Signal is an opaque WebRTC blob.
type SignalRequest struct {
	Target string          `json:"target"`
	Signal json.RawMessage `json:"signal"`
}

/*** server → client payloads ***/

type UserJoined struct {
	UserID     string `json:"userId"`
	UsersCount int    `json:"usersCount"`
}

type UserLeft struct {
	UserID string `json:"userId"`
}

type CursorUpdated struct {
	UserID string `json:"userId"`
	Cursor Cursor `json:"cursor"`
}

type DocumentUpdated struct {
	UserID  string          `json:"userId"`
	Changes json.RawMessage `json:"changes"`
	Version int64           `json:"version"`
}

type IncomingCall struct {
	From     string `json:"from"`
	FromName string `json:"fromName"`
}

type CallUnavailable struct {
	UserID string `json:"userId"`
}

/*** HTTP payloads ***/

type RoomStatus struct {
	ID        string   `json:"id"`
	UserCount int      `json:"userCount"`
	Users     []string `json:"users"`
}
