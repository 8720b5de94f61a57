package schema

import "fmt"

// enumText returns the catalog name of an enum value.
func enumText(names []string, i int, typ string) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("invalid %s value %d", typ, i)
	}
	return []byte(names[i]), nil
}

// enumParse resolves a catalog name back to its enum value.
func enumParse(names []string, text []byte, typ string) (int, error) {
	s := string(text)
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", typ, s)
}

// enumString is the fmt.Stringer form; out-of-range values print numerically.
func enumString(names []string, i int, typ string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", typ, i)
	}
	return names[i]
}
