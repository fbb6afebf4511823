package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/sneakbit/internal/world"
)

type stubBuilder struct {
	id world.ID
}

func (b stubBuilder) ID() world.ID  { return b.id }
func (b stubBuilder) Title() string { return "world.stub" }
func (b stubBuilder) Build(seed int64) *world.LevelFile {
	return &world.LevelFile{ID: b.id, Biomes: []string{"1"}}
}

func TestRegisterAndCreate(t *testing.T) {
	const id world.ID = 9001
	Register(id, func() Builder { return stubBuilder{id: id} })

	if !Exists(id) {
		t.Fatal("expected world to exist after Register")
	}
	if got := Title(id); got != "world.stub" {
		t.Errorf("Title() = %q, want %q", got, "world.stub")
	}

	b, err := Create(id)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if lf := b.Build(1); lf.ID != id {
		t.Errorf("Build().ID = %d, want %d", lf.ID, id)
	}

	found := false
	for _, info := range List() {
		if info.ID == id {
			found = true
		}
	}
	if !found {
		t.Error("List() does not contain the registered world")
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create(9999)
	if !errors.Is(err, ErrUnknownWorld) {
		t.Errorf("Create(9999) error = %v, want ErrUnknownWorld", err)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	const id world.ID = 9002
	Register(id, func() Builder { return stubBuilder{id: id} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(id, func() Builder { return stubBuilder{id: id} })
}
