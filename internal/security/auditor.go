package security

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/coregx/dsql/internal/logger"
)

// AuditLevel selects which statements an Auditor records.
type AuditLevel int

const (
	// AuditNone disables audit logging.
	AuditNone AuditLevel = iota
	// AuditWrites records INSERT, UPDATE and DELETE.
	AuditWrites
	// AuditReads records SELECT in addition to writes.
	AuditReads
	// AuditAll records everything, CREATE and DROP included.
	AuditAll
)

// AuditEvent is one audited statement.
type AuditEvent struct {
	Timestamp time.Time
	User      string
	Operation string
	Table     string
	SQL       string
	// Params is the number of bound parameters per execution.
	Params int
	// Batch is the number of executions of a batch.
	Batch     int
	Rows      int
	ClientIP  string
	RequestID string
	Success   bool
	Error     string
	Duration  time.Duration
}

// Auditor writes audit events to a Logger. Parameter values are never
// recorded, only their count.
type Auditor struct {
	logger logger.Logger
	level  AuditLevel
	now    func() time.Time
}

// NewAuditor creates an auditor. A nil logger records nothing.
func NewAuditor(lg logger.Logger, level AuditLevel) *Auditor {
	return &Auditor{
		logger: lg,
		level:  level,
		now:    time.Now,
	}
}

// Record logs ev if the audit level covers its operation. Table, user,
// client IP, request ID and timestamp are filled in when empty.
func (a *Auditor) Record(ctx context.Context, ev AuditEvent) {
	if !a.shouldLog(ev.Operation) {
		return
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = a.now().UTC()
	}
	if ev.User == "" {
		ev.User = GetUser(ctx)
	}
	if ev.ClientIP == "" {
		ev.ClientIP = GetClientIP(ctx)
	}
	if ev.RequestID == "" {
		ev.RequestID = GetRequestID(ctx)
	}
	if ev.Table == "" {
		ev.Table = extractTableName(ev.SQL)
	}

	logFunc := a.logger.Info
	if !ev.Success {
		logFunc = a.logger.Warn
	}
	logFunc("audit_event",
		"timestamp", ev.Timestamp,
		"user", ev.User,
		"operation", ev.Operation,
		"table", ev.Table,
		"sql", ev.SQL,
		"params", ev.Params,
		"batch", ev.Batch,
		"rows", ev.Rows,
		"client_ip", ev.ClientIP,
		"request_id", ev.RequestID,
		"success", ev.Success,
		"error", ev.Error,
		"duration_ms", ev.Duration.Milliseconds(),
	)
}

func (a *Auditor) shouldLog(operation string) bool {
	if a == nil || a.logger == nil {
		return false
	}
	switch a.level {
	case AuditWrites:
		return operation == "INSERT" || operation == "UPDATE" || operation == "DELETE"
	case AuditReads:
		return operation == "INSERT" || operation == "UPDATE" || operation == "DELETE" || operation == "SELECT"
	case AuditAll:
		return true
	default:
		return false
	}
}

var tableAfterKeyword = regexp.MustCompile(
	"(?i)\\b(?:FROM|INTO|UPDATE|TABLE(?:\\s+IF(?:\\s+NOT)?\\s+EXISTS)?)\\s+[`\"]?([A-Za-z_][A-Za-z0-9_$]*)")

// extractTableName returns the first table named after FROM, INTO, UPDATE
// or TABLE, unquoted, or "".
func extractTableName(sql string) string {
	m := tableAfterKeyword.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

type contextKey string

const (
	userKey      contextKey = "dsql:user"
	clientIPKey  contextKey = "dsql:client_ip"
	requestIDKey contextKey = "dsql:request_id"
)

// WithUser adds the acting user to ctx for audit logging.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// WithClientIP adds the client IP to ctx for audit logging.
func WithClientIP(ctx context.Context, clientIP string) context.Context {
	return context.WithValue(ctx, clientIPKey, clientIP)
}

// WithRequestID adds a request ID to ctx for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetUser(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}

func GetClientIP(ctx context.Context) string {
	clientIP, _ := ctx.Value(clientIPKey).(string)
	return clientIP
}

func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}
