package session

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a non-blocking message for the user, shown on the next page render.
type Notice struct {
	Level Level
	Text  string
}

// Success builds a success notice.
func Success(text string) Notice { return Notice{Level: LevelSuccess, Text: text} }

// Failure builds an error notice.
func Failure(text string) Notice { return Notice{Level: LevelError, Text: text} }

// Info builds an informational notice.
func Info(text string) Notice { return Notice{Level: LevelInfo, Text: text} }

// PushNotice queues n for the session's next render.
func (s *Store) PushNotice(id string, n Notice) {
	if n.Text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.touch(id, true)
	sl.notices = append(sl.notices, n)
}

// DrainNotices returns and removes the session's queued notices.
func (s *Store) DrainNotices(id string) []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.touch(id, false)
	if sl == nil {
		return nil
	}
	out := sl.notices
	sl.notices = nil
	return out
}
