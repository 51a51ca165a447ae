// Package keypad holds the state of the 16-key hexadecimal keypad and the
// host keyboard layout shared by the frontends.
package keypad

type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	KeyCount = 16
)

// Keypad tracks which keys are held.
type Keypad struct {
	down [KeyCount]bool
}

func (k *Keypad) Press(key Key) {
	if key < KeyCount {
		k.down[key] = true
	}
}

func (k *Keypad) Release(key Key) {
	if key < KeyCount {
		k.down[key] = false
	}
}

// IsDown reports whether key is held. Keys above 0xF are never down.
func (k *Keypad) IsDown(key uint8) bool {
	return key < KeyCount && k.down[key]
}

func (k *Keypad) ReleaseAll() {
	k.down = [KeyCount]bool{}
}

// FromRune maps the host keyboard to the keypad:
//
//	Physical                Logical
//	================        =================
//	| 1 | 2 | 3 | 4 |       | 1 | 2 | 3 | C |
//	| q | w | e | r |       | 4 | 5 | 6 | D |
//	| a | s | d | f |  <=>  | 7 | 8 | 9 | E |
//	| z | x | c | v |       | A | 0 | B | F |
//	================        =================
func FromRune(r rune) (Key, bool) {
	switch r {
	case 'x', 'X':
		return Key0, true
	case '1':
		return Key1, true
	case '2':
		return Key2, true
	case '3':
		return Key3, true
	case 'q', 'Q':
		return Key4, true
	case 'w', 'W':
		return Key5, true
	case 'e', 'E':
		return Key6, true
	case 'a', 'A':
		return Key7, true
	case 's', 'S':
		return Key8, true
	case 'd', 'D':
		return Key9, true
	case 'z', 'Z':
		return KeyA, true
	case 'c', 'C':
		return KeyB, true
	case '4':
		return KeyC, true
	case 'r', 'R':
		return KeyD, true
	case 'f', 'F':
		return KeyE, true
	case 'v', 'V':
		return KeyF, true
	default:
		return 0, false
	}
}
