package types

import "github.com/jmccrae/buzzer-backend/internal/engine"

type ClientMessage struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type ServerMessage struct {
	Type         string        `json:"type"` // "state" | "admin-login-success" | "admin-login-fail" | "error"
	Version      int           `json:"version,omitempty"`
	State        *engine.State `json:"state,omitempty"`
	AdminPresent bool          `json:"admin_present,omitempty"`
	Error        string        `json:"error,omitempty"`
}
