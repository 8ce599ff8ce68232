package notification

import "time"

type Level string

const (
	LevelInfo        Level = "info"
	LevelDestructive Level = "destructive"
)

// Notification is a user-facing toast. Failures that must not break a request are
// reported this way instead of being returned as errors.
type Notification struct {
	Level       Level     `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func Destructive(title, description string) Notification {
	return Notification{Level: LevelDestructive, Title: title, Description: description, CreatedAt: time.Now().UTC()}
}

func Info(title, description string) Notification {
	return Notification{Level: LevelInfo, Title: title, Description: description, CreatedAt: time.Now().UTC()}
}
