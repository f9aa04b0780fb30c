package assets

import (
	"strings"
	"testing"
	"time"
)

func TestParseSprite(t *testing.T) {
	art := strings.Join([]string{
		" ^ ",
		"###",
		"#o#",
		"^#^",
	}, "\n")

	sp, err := ParseSprite(strings.NewReader(art))
	if err != nil {
		t.Fatalf("ParseSprite: %v", err)
	}
	if sp.W != 3 || sp.H != 4 {
		t.Fatalf("size = %dx%d, want 3x4", sp.W, sp.H)
	}

	// Spaces are transparent, palette characters are opaque.
	if a := sp.At(0, 0).A; a != 0 {
		t.Errorf("corner not transparent: alpha=%v", a)
	}
	if a := sp.At(1, 0).A; a == 0 {
		t.Errorf("nose transparent: alpha=%v", a)
	}
	if c := sp.At(1, 2); c.B <= c.R {
		t.Errorf("porthole not blue: %+v", c)
	}
}

func TestParseSpriteRaggedRows(t *testing.T) {
	// Shorter rows pad with transparency out to the widest line.
	sp, err := ParseSprite(strings.NewReader("#\n###\n"))
	if err != nil {
		t.Fatalf("ParseSprite: %v", err)
	}
	if sp.W != 3 || sp.H != 2 {
		t.Fatalf("size = %dx%d, want 3x2", sp.W, sp.H)
	}
	if a := sp.At(2, 0).A; a != 0 {
		t.Errorf("padded cell not transparent: alpha=%v", a)
	}
}

func TestParseSpriteEmpty(t *testing.T) {
	if _, err := ParseSprite(strings.NewReader("")); err == nil {
		t.Error("empty art did not error")
	}
	if _, err := ParseSprite(strings.NewReader("\n\n")); err == nil {
		t.Error("blank-line art did not error")
	}
}

func TestLoadMissing(t *testing.T) {
	// A loader with no sources at all fails cleanly; slots stay nil.
	l := &Loader{}
	if _, err := l.Load("rocket"); err == nil {
		t.Error("load from empty loader did not error")
	}

	var slot Slot
	l.LoadInto(&slot, "rocket")
	if slot.Get() != nil {
		t.Error("failed load populated the slot")
	}
}

func TestDefaultLoaderEmbeddedArt(t *testing.T) {
	l := DefaultLoader("")
	for _, name := range []string{"rocket", "moon"} {
		sp, err := l.Load(name)
		if err != nil {
			t.Fatalf("embedded %s: %v", name, err)
		}
		if sp.W == 0 || sp.H == 0 {
			t.Errorf("embedded %s has empty size", name)
		}
	}
}

func TestFillAsync(t *testing.T) {
	st := &Store{}
	DefaultLoader("").FillAsync(st)

	// Loads are asynchronous; poll briefly for publication.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st.Rocket.Get() != nil && st.Moon.Get() != nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("async load never published: rocket=%v moon=%v",
		st.Rocket.Get() != nil, st.Moon.Get() != nil)
}
