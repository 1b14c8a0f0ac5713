package proto

import "strings"

// Split extracts the parameters from an IRC line according to RFC 1459.
//
// Runs of spaces between parameters are skipped, as are leading spaces.
// Once at least one parameter has been emitted, a parameter starting with
// ':' extends to the end of the line, spaces included, without the colon
// itself. A colon before the first parameter gets no such treatment: only
// the trailing parameter may be extended.
//
// line must already be stripped of its line ending. The result may be
// empty if the line consists only of spaces.
func Split(line string) []string {
	var params []string
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i == len(line) {
			break
		}
		if line[i] == ':' && len(params) > 0 {
			params = append(params, line[i+1:])
			break
		}
		j := i
		for j < len(line) && line[j] != ' ' {
			j++
		}
		params = append(params, line[i:j])
		i = j
	}
	return params
}

// Join renders params as a canonical IRC line: parameters separated by
// single spaces, with a ':' prefixed to the last parameter when needed to
// survive a round trip through Split (it is empty, contains a space, or
// starts with a colon).
func Join(params []string) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == len(params)-1 && i > 0 &&
			(p == "" || strings.Contains(p, " ") || strings.HasPrefix(p, ":")) {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}
	return b.String()
}

// SplitMask splits a full "nick!user@host" mask into its parts. Missing
// parts come back empty; a mask without separators is all nick.
func SplitMask(mask string) (nick, user, host string) {
	if i := strings.IndexByte(mask, '@'); i >= 0 {
		mask, host = mask[:i], mask[i+1:]
	}
	if i := strings.IndexByte(mask, '!'); i >= 0 {
		mask, user = mask[:i], mask[i+1:]
	}
	nick = mask
	return
}

// CasemapASCII maps a nick or channel name to its canonical lowercase form
// under the "ascii" casemapping.
func CasemapASCII(name string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}, name)
}

// CasemapRFC1459 maps a nick or channel name to its canonical lowercase
// form under the "rfc1459" casemapping, where "[]\~" are the uppercase
// forms of "{}|^".
func CasemapRFC1459(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'A' <= r && r <= 'Z':
			return r + 'a' - 'A'
		case r == '[':
			return '{'
		case r == ']':
			return '}'
		case r == '\\':
			return '|'
		case r == '~':
			return '^'
		}
		return r
	}, name)
}
