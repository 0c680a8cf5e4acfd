package scenarios

import "testing"

func TestAll_Valid(t *testing.T) {
	all := All()
	if len(all) != 2 {
		t.Errorf("got %d scenarios, want 2", len(all))
	}
	for _, s := range all {
		if err := s.Validate(); err != nil {
			t.Errorf("%s: %v", s.Name, err)
		}
	}
}

func TestGet(t *testing.T) {
	for name, known := range map[string]bool{"overview": true, "empty": true, "nonexistent": false} {
		if got := Get(name) != nil; got != known {
			t.Errorf("Get(%q) found = %v", name, got)
		}
	}
}

func TestOverview(t *testing.T) {
	if Overview.UserID != DemoUserID {
		t.Errorf("UserID = %d, want %d", Overview.UserID, DemoUserID)
	}
	if len(Overview.Conversations) != 3 {
		t.Fatalf("%d conversations, want 3", len(Overview.Conversations))
	}
	// The long consultation must span more than one default page.
	if n := len(Overview.Conversations[1].Turns); n <= 10 {
		t.Errorf("long consultation has %d turns", n)
	}
	if len(Overview.Replies) == 0 {
		t.Error("no canned replies")
	}
}
