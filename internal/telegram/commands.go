package telegram

import "strings"

// Command is the closed set of chat commands. Inline buttons map 1:1 onto it.
type Command int

const (
	CmdUnknown Command = iota
	CmdStart
	CmdAdd
	CmdList
	CmdImport
	CmdSync
	CmdGetID
	CmdCheck
	CmdHelp
	CmdDebug
)

var commandNames = map[Command]string{
	CmdStart:  "start",
	CmdAdd:    "add",
	CmdList:   "list",
	CmdImport: "import",
	CmdSync:   "sync",
	CmdGetID:  "getid",
	CmdCheck:  "check",
	CmdHelp:   "help",
	CmdDebug:  "debug",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for c, n := range commandNames {
		m[n] = c
	}
	return m
}()

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCommand splits "/add@bot Ivan 15.05" into CmdAdd and "Ivan 15.05".
// ok is false when text is not a command at all.
func ParseCommand(text string) (cmd Command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return CmdUnknown, "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return CommandFromName(head), strings.TrimSpace(rest), true
}

// CommandFromName resolves a bare name; callback data uses the same names.
func CommandFromName(name string) Command {
	if c, ok := commandsByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return CmdUnknown
}
