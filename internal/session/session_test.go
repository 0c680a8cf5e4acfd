package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/zhubert/chatmodal/internal/config"
)

type failingStorage struct {
	values map[string]string
	sets   int
}

func (f *failingStorage) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *failingStorage) Set(string, string) error {
	f.sets++
	return errors.New("disk full")
}

func (f *failingStorage) Remove(string) error { return nil }

func TestGetOrCreate_ProvidedWins(t *testing.T) {
	storage := config.NewMemoryStore()
	_ = storage.Set(config.DefaultStorageKey, "stored")
	s := NewStore(storage, config.DefaultStorageKey)

	if got := s.GetOrCreate("host-given"); got != "host-given" {
		t.Errorf("GetOrCreate() = %q, want host-given", got)
	}
	if v, _ := storage.Get(config.DefaultStorageKey); v != "stored" {
		t.Errorf("provided id must not be persisted, storage has %q", v)
	}
}

func TestGetOrCreate_ReusesStored(t *testing.T) {
	storage := config.NewMemoryStore()
	_ = storage.Set(config.DefaultStorageKey, "stored")
	s := NewStore(storage, config.DefaultStorageKey)

	if got := s.GetOrCreate(""); got != "stored" {
		t.Errorf("GetOrCreate() = %q, want stored", got)
	}
}

func TestGetOrCreate_CreatesAndPersists(t *testing.T) {
	storage := config.NewMemoryStore()
	s := NewStore(storage, config.DefaultStorageKey)

	id := s.GetOrCreate("")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("GetOrCreate() = %q, not a uuid: %v", id, err)
	}
	if v, _ := storage.Get(config.DefaultStorageKey); v != id {
		t.Errorf("stored %q, want %q", v, id)
	}
	if again := s.GetOrCreate(""); again != id {
		t.Errorf("second GetOrCreate() = %q, want %q", again, id)
	}
}

func TestCreateNew_AlwaysFresh(t *testing.T) {
	storage := config.NewMemoryStore()
	s := NewStore(storage, "custom")

	first := s.CreateNew()
	second := s.CreateNew()
	if first == second {
		t.Error("CreateNew should never repeat an id")
	}
	if v, _ := storage.Get("custom"); v != second {
		t.Errorf("stored %q, want latest %q", v, second)
	}
}

func TestSelect(t *testing.T) {
	storage := config.NewMemoryStore()
	s := NewStore(storage, config.DefaultStorageKey)

	s.Select("picked")
	if got := s.GetOrCreate(""); got != "picked" {
		t.Errorf("GetOrCreate() after Select = %q", got)
	}

	s.Select("")
	if v, _ := storage.Get(config.DefaultStorageKey); v != "picked" {
		t.Errorf("empty Select should be ignored, storage has %q", v)
	}
}

func TestStorageFailureIsNotFatal(t *testing.T) {
	storage := &failingStorage{values: map[string]string{}}
	s := NewStore(storage, config.DefaultStorageKey)

	id := s.GetOrCreate("")
	if id == "" {
		t.Fatal("GetOrCreate should still return an id when storage fails")
	}
	if storage.sets != 1 {
		t.Errorf("Set called %d times, want 1", storage.sets)
	}
}

func TestForget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	storage, err := config.OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(storage, config.DefaultStorageKey)
	first := s.GetOrCreate("")

	if err := s.Forget(); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}

	reopened, _ := config.OpenStore(path)
	if next := NewStore(reopened, config.DefaultStorageKey).GetOrCreate(""); next == first {
		t.Error("after Forget a new id should be created")
	}
}
