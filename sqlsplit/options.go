package sqlsplit

// Options control what the tokenizer keeps in each split piece.
// The zero value drops terminators, surrounding whitespace, empty
// statements and comments - the most portable output across backends.
type Options struct {
	KeepTerminators     bool `json:"keep_terminators"`      // keep the trailing `;` on each piece
	KeepExtraSpaces     bool `json:"keep_extra_spaces"`     // do not trim leading/trailing whitespace
	KeepEmptyStatements bool `json:"keep_empty_statements"` // keep pieces with no code in them
	KeepComments        bool `json:"keep_comments"`         // keep `--`, `/* */` (and `#`) comments

	// HashComments treats `#` as a line comment, as MySQL does.
	// Off by default: PostgreSQL reads `#` as the XOR operator, and
	// a false comment would swallow real statement boundaries.
	HashComments bool `json:"hash_comments"`
}

// KeepAll returns Options that make splitting lossless: concatenating
// the pieces with no separator reproduces the input exactly.
func KeepAll() Options {
	return Options{
		KeepTerminators:     true,
		KeepExtraSpaces:     true,
		KeepEmptyStatements: true,
		KeepComments:        true,
	}
}
