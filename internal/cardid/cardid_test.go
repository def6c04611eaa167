package cardid

import "testing"

func TestHashStableUnderFormatting(t *testing.T) {
	a := Hash("What is Go?", "A programming language.")
	b := Hash("  what is go?  ", "a programming language.\r\n")
	if a != b {
		t.Error("hash should ignore case, surrounding whitespace and line endings")
	}
}

func TestHashChangesWithContent(t *testing.T) {
	a := Hash("front", "back")
	b := Hash("front", "back edited")
	if a == b {
		t.Error("different backs must hash differently")
	}
}

func TestHashFieldBoundary(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide across the front/back join.
	if Hash("ab", "c") == Hash("a", "bc") {
		t.Error("content must not collide across the field boundary")
	}
}
