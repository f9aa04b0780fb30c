// Package assets loads optional sprite art for the rocket and moon.
// Absence of an asset is never an error: every consumer must tolerate a
// nil sprite and substitute vector drawing. Loading is asynchronous and
// publishes through atomic pointers, so the render loop never blocks on
// it; the next natural frame simply starts using an arrived sprite.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ostrab/moonstrike/internal/draw"
)

//go:embed data
var builtin embed.FS

// Sprite art uses one character per cell. Unknown characters and spaces
// are transparent.
var palette = map[rune]draw.Color{
	'#': draw.RGB(0.85, 0.87, 0.92), // hull
	'=': draw.RGB(0.70, 0.70, 0.75), // hull shade
	'@': draw.RGB(0.55, 0.55, 0.60), // dark shade
	'o': draw.RGB(0.35, 0.65, 0.90), // porthole
	'^': draw.RGB(0.75, 0.20, 0.20), // nose and fins
	'*': draw.RGB(1.00, 1.00, 1.00), // highlight
	'+': draw.RGB(1.00, 0.75, 0.30), // amber
	'M': draw.RGB(0.92, 0.92, 0.88), // moon surface
	'm': draw.RGB(0.62, 0.62, 0.66), // moon limb
	'c': draw.RGB(0.45, 0.45, 0.50), // crater
}

// Slot is an asset slot holding an optionally loaded sprite.
// Get returns nil until a load completes.
type Slot struct {
	p atomic.Pointer[draw.Sprite]
}

// Get returns the loaded sprite, or nil when absent.
func (s *Slot) Get() *draw.Sprite {
	return s.p.Load()
}

// Store holds the two asset slots of the show.
type Store struct {
	Rocket Slot
	Moon   Slot
}

// Loader resolves sprite names against an optional directory override
// and a fallback filesystem. Each name is tried as name.spr, then
// name.txt; the first parseable hit wins.
type Loader struct {
	Dir string // Optional on-disk override directory
	FS  fs.FS  // Fallback filesystem; nil disables the fallback tier
}

// DefaultLoader resolves against the embedded art, with dir (if
// non-empty) taking precedence.
func DefaultLoader(dir string) *Loader {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		// embed paths are fixed at compile time
		sub = nil
	}
	return &Loader{Dir: dir, FS: sub}
}

// Load resolves a sprite by name through the fallback chain.
func (l *Loader) Load(name string) (*draw.Sprite, error) {
	variants := []string{name + ".spr", name + ".txt"}
	var firstErr error
	for _, v := range variants {
		if l.Dir != "" {
			f, err := os.Open(filepath.Join(l.Dir, v))
			if err == nil {
				sp, perr := ParseSprite(f)
				f.Close()
				if perr == nil {
					return sp, nil
				}
				err = perr
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		if l.FS != nil {
			f, err := l.FS.Open(v)
			if err == nil {
				sp, perr := ParseSprite(f)
				f.Close()
				if perr == nil {
					return sp, nil
				}
				err = perr
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr == nil {
		firstErr = fs.ErrNotExist
	}
	return nil, fmt.Errorf("load sprite %q: %w", name, firstErr)
}

// LoadInto loads a sprite into the slot, silently leaving it nil on
// failure. Safe to call from a background goroutine.
func (l *Loader) LoadInto(slot *Slot, name string) {
	sp, err := l.Load(name)
	if err != nil {
		return
	}
	slot.p.Store(sp)
}

// FillAsync starts background loads for all slots and returns
// immediately. Callers read slots per frame via Get.
func (l *Loader) FillAsync(st *Store) {
	go l.LoadInto(&st.Rocket, "rocket")
	go l.LoadInto(&st.Moon, "moon")
}

// ParseSprite reads character art into a sprite. Lines become rows; the
// widest line sets the width and shorter rows pad with transparency.
func ParseSprite(r io.Reader) (*draw.Sprite, error) {
	var rows [][]rune
	width := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := []rune(sc.Text())
		if n := len(line); n > width {
			width = n
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse sprite: %w", err)
	}
	if width == 0 || len(rows) == 0 {
		return nil, fmt.Errorf("parse sprite: empty art")
	}

	sp := &draw.Sprite{
		W:   width,
		H:   len(rows),
		Pix: make([]draw.Color, width*len(rows)),
	}
	for y, row := range rows {
		for x, ch := range row {
			if col, ok := palette[ch]; ok {
				sp.Pix[y*width+x] = col
			}
		}
	}
	return sp, nil
}
