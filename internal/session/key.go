package session

import "fmt"

// KeyKind classifies a key event as seen by the loop.
type KeyKind int

const (
	KeyIgnored KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyArrow
	KeyRune
	KeyInterrupt
)

// Direction of an arrow key.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Key is a single classified key event.
type Key struct {
	Kind KeyKind
	Rune rune      // set for KeyRune
	Dir  Direction // set for KeyArrow
}

// Convenience constructors used by the terminal hosts.
func EnterKey() Key { return Key{Kind: KeyEnter} }
func BackspaceKey() Key { return Key{Kind: KeyBackspace} }
func InterruptKey() Key { return Key{Kind: KeyInterrupt} }
func IgnoredKey() Key { return Key{Kind: KeyIgnored} }
func RuneKey(r rune) Key { return Key{Kind: KeyRune, Rune: r} }
func ArrowKey(d Direction) Key { return Key{Kind: KeyArrow, Dir: d} }

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

func (k Key) String() string {
	switch k.Kind {
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyArrow:
		return k.Dir.String()
	case KeyRune:
		return fmt.Sprintf("%q", k.Rune)
	case KeyInterrupt:
		return "interrupt"
	}
	return "ignored"
}
