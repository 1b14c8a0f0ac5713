package slirc

import (
	"errors"
	"testing"
)

var testAPI = NewAPIType("test.api")

type fakeModule struct {
	name     string
	unloaded bool
}

func (m *fakeModule) ModuleAPI() APIType { return testAPI }
func (m *fakeModule) Unload()            { m.unloaded = true }

type otherModule struct{ fakeModule }

func TestModuleUniqueness(t *testing.T) {
	irc := New()
	first := &fakeModule{name: "first"}
	second := &fakeModule{name: "second"}

	irc.Load(first)
	irc.Load(second)

	if !first.unloaded {
		t.Errorf("expected loading a second module to unload the first")
	}
	if second.unloaded {
		t.Errorf("expected the second module to stay loaded")
	}

	m, err := irc.Module(testAPI)
	if err != nil {
		t.Fatalf("expected a module for the API, got %v", err)
	}
	if m != second {
		t.Errorf("expected the second module to own the API")
	}
}

func TestUnload(t *testing.T) {
	irc := New()
	m := &fakeModule{}
	irc.Load(m)

	if err := irc.Unload(testAPI); err != nil {
		t.Errorf("expected unload of a loaded module to succeed, got %v", err)
	}
	if !m.unloaded {
		t.Errorf("expected the module's Unload hook to run")
	}
	if err := irc.Unload(testAPI); !errors.Is(err, ErrNoModule) {
		t.Errorf("expected ErrNoModule, got %v", err)
	}
	if _, err := irc.Module(testAPI); !errors.Is(err, ErrNoModule) {
		t.Errorf("expected ErrNoModule from Module, got %v", err)
	}
}

func TestModuleAs(t *testing.T) {
	irc := New()
	m := &fakeModule{}
	irc.Load(m)

	got, err := ModuleAs[*fakeModule](irc, testAPI)
	if err != nil {
		t.Fatalf("expected the downcast to succeed, got %v", err)
	}
	if got != m {
		t.Errorf("expected the loaded instance back")
	}

	if _, err := ModuleAs[*otherModule](irc, testAPI); !errors.Is(err, ErrNoModule) {
		t.Errorf("expected ErrNoModule on a downcast mismatch, got %v", err)
	}
}
