package refs

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// KeyValueFileResolver resolves "file:/path//KEY" references against plain
// key=value text files (dotenv-style). Lines may carry an "export " prefix,
// blank lines and #-comments are skipped, and quoted values lose their
// quotes. Without "//KEY" the trimmed file content is returned.
type KeyValueFileResolver struct{}

func (KeyValueFileResolver) Resolve(ref string) (string, error) {
	path, key := splitSourceAndKey(ref)
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty file path in %q", ErrBadRef, ref)
	}
	if key == "" && strings.HasSuffix(ref, "//") {
		return "", fmt.Errorf("%w: empty key after // in %q", ErrBadRef, ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", readErr(path, err)
	}
	if key == "" {
		return strings.TrimSpace(stripBOM(string(data))), nil
	}

	scanner := bufio.NewScanner(strings.NewReader(stripBOM(string(data))))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		k, v, ok := parseLine(scanner.Text())
		if ok && k == key {
			return v, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan %s: %w", path, err)
	}
	return "", fmt.Errorf("%w: key %q in %s", ErrNotFound, key, path)
}

// parseLine reads one "[export ]KEY=VALUE [# comment]" line. A '#' inside
// quotes is kept; an unquoted '#' preceded by whitespace starts a comment.
func parseLine(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if rest, has := strings.CutPrefix(line, "export "); has {
		line = strings.TrimSpace(rest)
	}
	rawKey, rawVal, found := strings.Cut(line, "=")
	key = strings.TrimSpace(rawKey)
	if !found || key == "" {
		return "", "", false
	}
	return key, cleanValue(strings.TrimSpace(rawVal)), true
}

// cleanValue strips an inline comment and a matching pair of quotes. Inside
// double quotes the escapes \n \t \\ \" are processed; single-quoted text
// stays literal.
func cleanValue(val string) string {
	val = cutComment(val)
	n := len(val)
	if n >= 2 && val[0] == '"' && val[n-1] == '"' {
		return unescape(val[1 : n-1])
	}
	if n >= 2 && val[0] == '\'' && val[n-1] == '\'' {
		return val[1 : n-1]
	}
	return val
}

func cutComment(s string) string {
	inSingle, inDouble := false, false
	prevSpace := true
	for i, r := range s {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble && prevSpace {
				return strings.TrimSpace(s[:i])
			}
		}
		prevSpace = r == ' ' || r == '\t'
	}
	return strings.TrimSpace(s)
}

func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\', '"', '\'':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
