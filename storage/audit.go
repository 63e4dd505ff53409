package storage

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	goccy "github.com/goccy/go-json"
)

type contextKey int

const (
	sessionIDKey contextKey = iota
)

func SetSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}

// AuditLogger writes game events to a log as JSON lines.
// A nil *AuditLogger discards everything.
type AuditLogger struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *goccy.Encoder
	now func() time.Time
}

// AuditData is the interface for typed audit event data.
type AuditData interface {
	auditData()
}

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	Time      string    `json:"time"`
	SessionID string    `json:"session_id,omitempty"`
	Event     string    `json:"event"`
	Data      AuditData `json:"data"`
}

// AuditSessionStart is logged when a session begins.
type AuditSessionStart struct {
	Room string `json:"room"`
}

func (AuditSessionStart) auditData() {}

// AuditRoomSolved is logged when a solver produced a token.
type AuditRoomSolved struct {
	Room  string `json:"room"`
	Item  string `json:"item"`
	Token string `json:"token"`
}

func (AuditRoomSolved) auditData() {}

// AuditSolveFailed is logged when a solver produced no token.
type AuditSolveFailed struct {
	Room   string `json:"room"`
	Reason string `json:"reason"`
}

func (AuditSolveFailed) auditData() {}

// AuditGatePending is logged when the final gate record was assembled.
type AuditGatePending struct {
	GroupID string `json:"group_id"`
	Message string `json:"msg"`
}

func (AuditGatePending) auditData() {}

type AuditStateSaved struct {
	Path string `json:"path"`
}

func (AuditStateSaved) auditData() {}

type AuditStateLoaded struct {
	Path string `json:"path"`
	Room string `json:"room"`
}

func (AuditStateLoaded) auditData() {}

// AuditSessionEnd is logged when the session terminates.
type AuditSessionEnd struct {
	Reason string `json:"reason"`
}

func (AuditSessionEnd) auditData() {}

// NewAuditLogger creates an audit logger writing to a size rotated file.
func NewAuditLogger(path string, maxSizeMB int, backups int) *AuditLogger {
	return NewAuditWriter(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: backups,
	})
}

func NewAuditWriter(out io.WriteCloser) *AuditLogger {
	return &AuditLogger{
		out: out,
		enc: goccy.NewEncoder(out),
		now: time.Now,
	}
}

// Log writes a structured audit entry as JSON.
// Write failures are logged and otherwise ignored.
func (a *AuditLogger) Log(ctx context.Context, event string, data AuditData) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	sessionID, _ := SessionID(ctx)
	entry := AuditEntry{
		Time:      a.now().UTC().Format(time.RFC3339Nano),
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
	if err := a.enc.Encode(entry); err != nil {
		log.Printf("audit log write failed: %v", err)
	}
}

func (a *AuditLogger) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.out.Close()
}
