package loader

import (
	"regexp"
	"strings"

	"github.com/jupyter/ipython-py3k/pkg/literal"
)

// A configuration script is a line-oriented statement subset. Statements:
//
//	c = get_config()
//	c.Section.sub.key = <literal>
//	load_subconfig('other_config.py')
//	load_subconfig('other_config.py', profile='dev')
//
// Blank lines and # comments are skipped, and a statement whose brackets
// remain open continues on the following lines.
type statement struct {
	line int
	kind statementKind

	// bind / assign
	ident string
	path  string
	value any

	// subconfig
	subName    string
	subProfile string
}

type statementKind int

const (
	stmtBind statementKind = iota
	stmtAssign
	stmtSubconfig
)

var (
	bindPattern      = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*get_config\(\s*\)$`)
	assignPattern    = regexp.MustCompile(`^([A-Za-z_]\w*)((?:\.[A-Za-z_]\w*)+)\s*=\s*(.+)$`)
	subconfigPattern = regexp.MustCompile(`^load_subconfig\(\s*(.+?)\s*\)$`)
)

func parseScript(file, src string) ([]statement, error) {
	lines, err := logicalLines(file, src)
	if err != nil {
		return nil, err
	}
	statements := make([]statement, 0, len(lines))
	for _, line := range lines {
		stmt, err := parseStatement(file, line)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

type logicalLine struct {
	number int
	text   string
}

// logicalLines splits src into statements, stripping comments and joining
// bracket continuations. Quote state carries across the scan so '#' inside a
// string never starts a comment.
func logicalLines(file, src string) ([]logicalLine, error) {
	var (
		out     []logicalLine
		pending strings.Builder
		start   int
		depth   int
	)
	for number, raw := range strings.Split(src, "\n") {
		line, lineDepth, err := stripComment(file, number+1, raw)
		if err != nil {
			return nil, err
		}
		if depth == 0 {
			if strings.TrimSpace(line) == "" {
				continue
			}
			start = number + 1
			pending.Reset()
		} else {
			pending.WriteByte(' ')
		}
		pending.WriteString(strings.TrimSpace(line))
		depth += lineDepth
		if depth < 0 {
			return nil, scriptErr(file, number+1, "unbalanced brackets")
		}
		if depth == 0 {
			out = append(out, logicalLine{number: start, text: pending.String()})
		}
	}
	if depth != 0 {
		out = append(out, logicalLine{number: start, text: pending.String()})
	}
	return out, nil
}

// stripComment removes an unquoted trailing comment and returns the net
// bracket depth introduced by the line.
func stripComment(file string, number int, line string) (string, int, error) {
	var quote byte
	depth := 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case '#':
			return line[:i], depth, nil
		}
	}
	if quote != 0 {
		return "", 0, scriptErr(file, number, "unterminated string literal")
	}
	return line, depth, nil
}

func parseStatement(file string, line logicalLine) (statement, error) {
	text := line.text

	if m := bindPattern.FindStringSubmatch(text); m != nil {
		return statement{line: line.number, kind: stmtBind, ident: m[1]}, nil
	}

	if m := subconfigPattern.FindStringSubmatch(text); m != nil {
		name, profile, err := parseSubconfigArgs(file, line.number, m[1])
		if err != nil {
			return statement{}, err
		}
		return statement{line: line.number, kind: stmtSubconfig, subName: name, subProfile: profile}, nil
	}

	if m := assignPattern.FindStringSubmatch(text); m != nil {
		value, err := literal.Eval(m[3])
		if err != nil {
			return statement{}, &ScriptError{File: file, Line: line.number, Err: err}
		}
		path := strings.TrimPrefix(m[2], ".")
		return statement{line: line.number, kind: stmtAssign, ident: m[1], path: path, value: value}, nil
	}

	return statement{}, scriptErr(file, line.number, "unsupported statement %q", text)
}

// parseSubconfigArgs accepts 'name', 'name', 'profile', and
// 'name', profile='profile' argument shapes.
func parseSubconfigArgs(file string, number int, args string) (name, profileName string, err error) {
	parts := splitArgs(args)
	if len(parts) == 0 || len(parts) > 2 {
		return "", "", scriptErr(file, number, "load_subconfig takes a file name and an optional profile")
	}
	name, err = unquoteArg(file, number, parts[0])
	if err != nil {
		return "", "", err
	}
	if len(parts) == 2 {
		arg := parts[1]
		if eq := strings.Index(arg, "="); eq >= 0 {
			keyword := strings.TrimSpace(arg[:eq])
			if keyword != "profile" {
				return "", "", scriptErr(file, number, "unknown keyword argument %q", keyword)
			}
			arg = strings.TrimSpace(arg[eq+1:])
		}
		profileName, err = unquoteArg(file, number, arg)
		if err != nil {
			return "", "", err
		}
	}
	return name, profileName, nil
}

func splitArgs(args string) []string {
	var (
		out   []string
		quote byte
		start int
	)
	for i := 0; i < len(args); i++ {
		ch := args[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case ',':
			out = append(out, strings.TrimSpace(args[start:i]))
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(args[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func unquoteArg(file string, number int, arg string) (string, error) {
	value, err := literal.Eval(arg)
	if err != nil {
		return "", &ScriptError{File: file, Line: number, Err: err}
	}
	text, ok := value.(string)
	if !ok {
		return "", scriptErr(file, number, "expected a string argument, got %v", value)
	}
	return text, nil
}
