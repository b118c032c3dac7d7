package preprocess

// escapeForStringize backslash-escapes the characters the '#' operator
// must protect when wrapping an expanded argument in double quotes: '"'
// and '\' itself (§4.D step 3 bullet 1, §8 I3). Every other byte,
// including any escape sequence already present in the argument text,
// passes through unchanged: stringize only adds the quoting layer, it
// does not reinterpret what is already inside the argument.
func escapeForStringize(s string) string {
	out := make([]byte, 0, len(s)+2)
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '"', '\\':
			out = append(out, '\\', b)
		default:
			out = append(out, b)
		}
	}
	return string(out)
}
