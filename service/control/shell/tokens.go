package shell

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes start at 1 to avoid clash with parsly.EOF.
const (
	listCode = iota + 1
	killCode
	execCode
	highCode
	lowCode
	quitCode
	helpCode
	numberCode
	argumentCode
)

var (
	whitespaceToken = parsly.NewToken(0, "Whitespace", matcher.NewWhiteSpace())

	listToken = parsly.NewToken(listCode, "p", newVerbMatcher('p'))
	killToken = parsly.NewToken(killCode, "k", newVerbMatcher('k'))
	execToken = parsly.NewToken(execCode, "e", newVerbMatcher('e'))
	highToken = parsly.NewToken(highCode, "h", newVerbMatcher('h'))
	lowToken  = parsly.NewToken(lowCode, "l", newVerbMatcher('l'))
	quitToken = parsly.NewToken(quitCode, "q", newVerbMatcher('q'))
	helpToken = parsly.NewToken(helpCode, "?", newVerbMatcher('?'))

	numberToken   = parsly.NewToken(numberCode, "Number", &numberMatcher{})
	argumentToken = parsly.NewToken(argumentCode, "Argument", &argumentMatcher{})
)

// verbMatcher matches a single command letter standing alone
type verbMatcher struct {
	verb byte
}

func newVerbMatcher(verb byte) parsly.Matcher {
	return &verbMatcher{verb: verb}
}

func (m *verbMatcher) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	if pos >= cursor.InputSize || cursor.Input[pos] != m.verb {
		return 0
	}
	if pos+1 < cursor.InputSize && !isSpace(cursor.Input[pos+1]) {
		return 0
	}
	return 1
}

// numberMatcher matches an optionally signed decimal integer
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	i := pos
	if i < size && input[i] == '-' {
		i++
	}
	digits := 0
	for ; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	if i < size && !isSpace(input[i]) {
		return 0
	}
	return i - pos
}

// argumentMatcher matches a run of non whitespace bytes
type argumentMatcher struct{}

func (m *argumentMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize && !isSpace(cursor.Input[i]); i++ {
		matched++
	}
	return matched
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}
