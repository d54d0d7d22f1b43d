package shell

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/viant/parsly"
	"github.com/viant/rotor/service/control"
)

// Command is a parsed controller line
type Command struct {
	Request *control.Request
	Quit    bool
	Help    bool
}

// Parse parses a single controller line, a blank line yields nil command
func Parse(line []byte) (*Command, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, nil
	}
	cursor := parsly.NewCursor("", line, 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, listToken, killToken, execToken, highToken, lowToken, quitToken, helpToken)
	// the cursor reuses its token match, keep the verb before matching further
	verb := matched.Code
	var command *Command
	switch verb {
	case parsly.EOF:
		return nil, nil
	case listCode:
		command = &Command{Request: control.List()}
	case quitCode:
		command = &Command{Quit: true}
	case helpCode:
		command = &Command{Help: true}
	case killCode, highCode, lowCode:
		id, err := parseID(cursor)
		if err != nil {
			return nil, err
		}
		switch verb {
		case killCode:
			command = &Command{Request: control.Kill(id)}
		case highCode:
			command = &Command{Request: control.Raise(id)}
		default:
			command = &Command{Request: control.Lower(id)}
		}
	case execCode:
		argument := cursor.MatchAfterOptional(whitespaceToken, argumentToken)
		if argument.Code != argumentCode {
			return nil, cursor.NewError(argumentToken)
		}
		path := argument.Text(cursor)
		if len(path) > control.MaxPathLen {
			return nil, fmt.Errorf("%w: %v", control.ErrPathTooLong, path)
		}
		command = &Command{Request: control.Spawn(path)}
	default:
		return nil, cursor.NewError(listToken, killToken, execToken, highToken, lowToken, quitToken)
	}
	if trailing := cursor.MatchAfterOptional(whitespaceToken, argumentToken); trailing.Code == argumentCode {
		return nil, fmt.Errorf("unexpected argument %q", trailing.Text(cursor))
	}
	return command, nil
}

func parseID(cursor *parsly.Cursor) (int, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, numberToken)
	if matched.Code != numberCode {
		return 0, cursor.NewError(numberToken)
	}
	text := matched.Text(cursor)
	id, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", control.ErrTaskIDRange, text, err)
	}
	return int(id), nil
}
