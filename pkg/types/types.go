package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the controllers.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// Store is the key/value persistence port used for pinning snapshots and view
// preferences. Values are JSON-compatible maps written and read as a whole.
type Store interface {
	Get(ctx context.Context, key string) (map[string]any, bool, error)
	Set(ctx context.Context, key string, value map[string]any) error
	Delete(ctx context.Context, key string) error
}

// NotificationLevel identifies the toast severity shown to the user.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a user facing message expressed as a catalog key plus
// interpolation parameters. Text is resolved by a Translator.
type Notification struct {
	Level  NotificationLevel
	Key    string
	Params map[string]any
}

// Notifier delivers notifications. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Translator resolves message keys into display text.
type Translator interface {
	Translate(key string, params map[string]any) string
}

// Downloader hands generated files to the client (browser download, file
// write, HTTP response, ...).
type Downloader interface {
	Download(ctx context.Context, filename, mimeType string, content []byte) error
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

// NopNotifier drops every notification.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Notification) {}

var (
	// ErrTableIDRequired indicates a table identifier was not supplied.
	ErrTableIDRequired = errors.New("go-tableview: table id required")
	// ErrMissingTableService occurs when no TableService was supplied.
	ErrMissingTableService = errors.New("go-tableview: missing table service")
	// ErrMissingStore occurs when no persistence store was supplied.
	ErrMissingStore = errors.New("go-tableview: missing store")
	// ErrMissingTableHandle occurs when pinning is requested without a table handle.
	ErrMissingTableHandle = errors.New("go-tableview: missing table handle")
	// ErrMissingDownloader occurs when an export has nowhere to deliver the file.
	ErrMissingDownloader = errors.New("go-tableview: missing downloader")
)
