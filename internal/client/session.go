// Package client implements an HTTP client for the shop API together with
// the local session file used by the command-line client.
package client

import (
	"encoding/json"
	"os"
	"sync"
)

// DefaultSessionFile is where the command-line client keeps its session.
const DefaultSessionFile = "session.json"

// Session is the locally persisted login state.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`

	mu   sync.Mutex
	path string
}

// LoadSession reads the session stored at path.
// A missing file yields an empty session.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Set records a successful login.
func (s *Session) Set(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Username = username
	s.Token = token
}

// Clear forgets the stored login.
func (s *Session) Clear() {
	s.Set("", "")
}

// Save writes the session back to its file, readable by the owner only.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s)
}
