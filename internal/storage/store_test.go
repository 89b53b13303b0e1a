package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ssbprep/interview-coach/backend/internal/model/interview"
)

func TestCreateGeneratesTimestampID(t *testing.T) {
	store := NewStore(t.TempDir())

	sess, err := store.Create("")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if !strings.HasPrefix(sess.SessionID, "session_") {
		t.Fatalf("unexpected session id %q", sess.SessionID)
	}
	if len(sess.Responses) != 0 {
		t.Fatalf("new session should have no responses, got %d", len(sess.Responses))
	}

	loaded, err := store.Load(sess.SessionID)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if loaded.SessionID != sess.SessionID {
		t.Fatalf("loaded id %q, want %q", loaded.SessionID, sess.SessionID)
	}
}

func TestAppendRoundTripPreservesOrder(t *testing.T) {
	store := NewStore(t.TempDir())
	const id = "practice_1"

	var want []interview.Response
	for i := 0; i < 5; i++ {
		resp := interview.Response{
			QuestionID:        fmt.Sprintf("q%d", i+1),
			QuestionText:      fmt.Sprintf("question %d", i+1),
			ResponseText:      fmt.Sprintf("answer %d", i+1),
			Sentiment:         interview.Sentiment{Label: "4 stars", Score: 0.7},
			ImmediateFeedback: fmt.Sprintf("feedback %d", i+1),
			Timestamp:         time.Date(2024, 3, 1, 10, i, 0, 0, time.UTC),
		}
		want = append(want, resp)
		if err := store.Append(id, resp); err != nil {
			t.Fatalf("Append err: %v", err)
		}
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(loaded.Responses) != len(want) {
		t.Fatalf("got %d responses, want %d", len(loaded.Responses), len(want))
	}
	for i, got := range loaded.Responses {
		if got != want[i] {
			t.Fatalf("response %d mismatch:\ngot  %+v\nwant %+v", i, got, want[i])
		}
	}
}

func TestLoadMissingSession(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("doesnotexist"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLoadMalformedSession(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := store.Load("broken"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for malformed file, got %v", err)
	}
}

func TestListSessions(t *testing.T) {
	store := NewStore(t.TempDir())

	if ids, err := store.List(); err != nil || len(ids) != 0 {
		t.Fatalf("expected empty list, got %v (err %v)", ids, err)
	}

	if _, err := store.Create("alpha"); err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if _, err := store.Create("beta"); err != nil {
		t.Fatalf("Create err: %v", err)
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found["alpha"] || !found["beta"] {
		t.Fatalf("expected both sessions listed, got %v", ids)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never_created"))
	ids, err := store.List()
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty list, got %v", ids)
	}
}

func TestAppendCreatesSessionOnFirstUse(t *testing.T) {
	store := NewStore(t.TempDir())

	resp := interview.Response{QuestionID: "q1", ResponseText: "answer", Timestamp: time.Now().UTC()}
	if err := store.Append("fresh", resp); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	loaded, err := store.Load("fresh")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(loaded.Responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(loaded.Responses))
	}
	if loaded.StartTime.IsZero() {
		t.Fatal("expected start time to be set")
	}
}
