package hotkeys

import (
	"fmt"
	"strings"
)

var modifierByName = map[string]Modifier{
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"SHIFT":   ModShift,
	"ALT":     ModAlt,
	"OPTION":  ModAlt,
	"WIN":     ModSuper,
	"SUPER":   ModSuper,
	"CMD":     ModSuper,
	"COMMAND": ModSuper,
}

// keyAliases maps accepted spellings to the canonical key token.
var keyAliases = map[string]string{
	"SPACE":  "SPACE",
	"TAB":    "TAB",
	"ENTER":  "ENTER",
	"RETURN": "ENTER",
	"ESC":    "ESC",
	"ESCAPE": "ESC",
	"DELETE": "DELETE",
	"DEL":    "DELETE",
	"LEFT":   "LEFT",
	"RIGHT":  "RIGHT",
	"UP":     "UP",
	"DOWN":   "DOWN",
}

// ParseBinding parses a binding like "Ctrl+Shift+F12".
func ParseBinding(spec string) (Binding, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Binding{}, fmt.Errorf("hotkey spec is empty")
	}

	parts := strings.Split(raw, "+")
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("hotkey must include modifiers and key: %s", raw)
	}

	var modifiers Modifier
	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		mod, ok := modifierByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in hotkey %q", token, raw)
		}
		modifiers |= mod
	}

	key, err := parseKey(parts[len(parts)-1])
	if err != nil {
		return Binding{}, err
	}

	binding := Binding{modifiers: modifiers, key: key}
	names := make([]string, 0, 5)
	for _, mod := range binding.ModifierList() {
		names = append(names, mod.String())
	}
	binding.normalized = strings.Join(append(names, key), "+")
	return binding, nil
}

func parseKey(raw string) (string, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return "", fmt.Errorf("missing hotkey key token")
	}
	if alias, ok := keyAliases[token]; ok {
		return alias, nil
	}
	if len(token) == 1 {
		ch := token[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return token, nil
		}
	}
	if isFunctionKey(token) {
		return token, nil
	}
	return "", fmt.Errorf("unknown key %q in hotkey spec", raw)
}

// isFunctionKey accepts F1 through F20.
func isFunctionKey(token string) bool {
	if len(token) < 2 || len(token) > 3 || token[0] != 'F' {
		return false
	}
	n := 0
	for _, ch := range token[1:] {
		if ch < '0' || ch > '9' {
			return false
		}
		n = n*10 + int(ch-'0')
	}
	if token[1] == '0' {
		return false
	}
	return n >= 1 && n <= 20
}
