package conversation

import (
	"sync"
	"testing"
)

func TestLogAppendOrder(t *testing.T) {
	log := NewLog()

	user := log.AppendUser("想吃辣的")
	assistant := log.AppendAssistant("推荐麻辣香锅")

	if user.Role != RoleUser || assistant.Role != RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", user.Role, assistant.Role)
	}
	if user.ID == "" || user.ID == assistant.ID {
		t.Error("turn IDs must be unique and non-empty")
	}

	turns := log.Turns()
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}
	if turns[0].Text != "想吃辣的" || turns[1].Text != "推荐麻辣香锅" {
		t.Errorf("turns out of order: %q, %q", turns[0].Text, turns[1].Text)
	}
}

func TestTurnsReturnsSnapshot(t *testing.T) {
	log := NewLog()
	log.AppendUser("first")

	snapshot := log.Turns()
	log.AppendAssistant("second")

	if len(snapshot) != 1 {
		t.Errorf("snapshot grew after append: %d turns", len(snapshot))
	}
}

func TestReset(t *testing.T) {
	log := NewLog()
	log.AppendUser("one")
	log.AppendAssistant("two")

	log.Reset()
	if log.Len() != 0 {
		t.Errorf("got %d turns after reset, want 0", log.Len())
	}

	log.AppendUser("fresh start")
	if log.Len() != 1 {
		t.Errorf("log unusable after reset: %d turns", log.Len())
	}
}

func TestConcurrentAppend(t *testing.T) {
	log := NewLog()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.AppendUser("turn")
			}
		}()
	}
	wg.Wait()

	if log.Len() != 500 {
		t.Errorf("got %d turns, want 500", log.Len())
	}
}
