package layout

// defaultLower is the starting layout used when no layout file is given.
const defaultLower = "qwertyuiop\n" +
	"asdfghjkl;\n" +
	"zxcvbnm,./\n" +
	"-\x00 \n\x00'\n"

// referenceLower is scored by run-ref.
const referenceLower = "qwfpbjluy;\n" +
	"arstgmneio\n" +
	"zxcdvkh,./\n" +
	"-\x00 \n\x00'\n"

// Default returns the built-in starting layout.
func Default() Layout {
	return FromLowerString(defaultLower)
}

// Reference returns the built-in reference layout.
func Reference() Layout {
	return FromLowerString(referenceLower)
}
