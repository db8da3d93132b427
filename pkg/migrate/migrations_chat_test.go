package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChatMigrationsContainConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_chat_messages.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no chat messages migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS chat_messages",
		"FOREIGN KEY (session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE",
		"CHECK (role IN ('user', 'model'))",
		"DROP TABLE IF EXISTS chat_messages",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSessionMigrationHasUniqueSessionID(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_chat_sessions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no chat sessions migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "CONSTRAINT uidx_chat_sessions_session UNIQUE (session_id)") {
		t.Errorf("missing unique constraint on session_id")
	}
}
