package input

import (
	"fmt"
	"strings"
)

// Key is a virtual key code. Printable keys use their upper-case ASCII value.
type Key int

const (
	KeyNone  Key = 0
	KeySpace Key = 32
	KeyA     Key = 'A'
	KeyD     Key = 'D'
	KeyE     Key = 'E'
	KeyF     Key = 'F'
	KeyG     Key = 'G'
	KeyQ     Key = 'Q'
	KeyR     Key = 'R'
	KeyS     Key = 'S'
	KeyT     Key = 'T'
	KeyW     Key = 'W'
	KeyEsc   Key = 256
	KeyTab   Key = 258
)

var namedKeys = map[string]Key{
	"space":  KeySpace,
	"esc":    KeyEsc,
	"escape": KeyEsc,
	"tab":    KeyTab,
}

// ParseKey converts a key name such as "E" or "space" to a Key.
func ParseKey(name string) (Key, error) {
	s := strings.TrimSpace(name)
	if k, ok := namedKeys[strings.ToLower(s)]; ok {
		return k, nil
	}
	if len(s) == 1 {
		c := strings.ToUpper(s)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return Key(c), nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key %q", name)
}

func (k Key) String() string {
	for name, v := range namedKeys {
		if v == k && name != "escape" {
			return name
		}
	}
	if (k >= 'A' && k <= 'Z') || (k >= '0' && k <= '9') {
		return string(rune(k))
	}
	return fmt.Sprintf("key(%d)", int(k))
}
