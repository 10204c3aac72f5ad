package protocol

// The server escapes markup-significant characters as HTML entities. Only the
// five XML predefined entities appear on the wire; anything else is passed
// through literally so malformed input cannot eat text.

// maxEntityLen bounds how long a partial entity is held across chunk
// boundaries before it is given up on and flushed as literal text.
const maxEntityLen = 8

var entities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
}

// decodeEntity resolves the name between '&' and ';'. The second return is
// false for unrecognized names.
func decodeEntity(name string) (rune, bool) {
	r, ok := entities[name]
	return r, ok
}

// entityChar reports whether r may appear inside an entity name.
func entityChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
