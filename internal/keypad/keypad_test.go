package keypad

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestPressRelease(t *testing.T) {
	var k Keypad

	k.Press(KeyA)
	assert.True(t, k.IsDown(0xA))
	assert.False(t, k.IsDown(0xB))

	k.Release(KeyA)
	assert.False(t, k.IsDown(0xA))

	k.Press(Key(20))
	assert.False(t, k.IsDown(20))

	k.Press(Key1)
	k.Press(KeyF)
	k.ReleaseAll()
	assert.False(t, k.IsDown(0x1))
	assert.False(t, k.IsDown(0xF))
}

func TestFromRune(t *testing.T) {
	layout := map[rune]Key{
		'1': Key1, '2': Key2, '3': Key3, '4': KeyC,
		'q': Key4, 'w': Key5, 'e': Key6, 'r': KeyD,
		'a': Key7, 's': Key8, 'd': Key9, 'f': KeyE,
		'z': KeyA, 'x': Key0, 'c': KeyB, 'v': KeyF,
		'Q': Key4, 'V': KeyF,
	}

	for r, want := range layout {
		got, ok := FromRune(r)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	seen := map[Key]bool{}
	for _, r := range "1234qwerasdfzxcv" {
		key, _ := FromRune(r)
		seen[key] = true
	}
	assert.Len(t, seen, KeyCount)

	_, ok := FromRune('p')
	assert.False(t, ok)
}
