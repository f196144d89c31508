// Package messaging defines interfaces for real-time communication.
package messaging

// Publisher delivers live-preview messages to the clients watching a session.
type Publisher interface {
	Publish(sessionID string, message []byte)
	CloseSession(sessionID string)
	ClientCount(sessionID string) int
}
