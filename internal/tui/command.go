package tui

import "strings"

// commandKind enumerates the slash commands the input line understands.
type commandKind int

const (
	cmdNone commandKind = iota
	cmdQuit
	cmdNew
	cmdSwitch
	cmdModel
	cmdAttach
	cmdVoice
	cmdCopy
	cmdHelp
)

// command is a parsed input line. For cmdNone, arg carries the message text.
type command struct {
	kind commandKind
	arg  string
}

// parseCommand interprets one submitted input line. Plain "exit"/"quit" are
// accepted alongside the slash forms because people type them anyway.
func parseCommand(input string) command {
	input = strings.TrimSpace(input)

	switch input {
	case "exit", "quit", "/exit", "/quit":
		return command{kind: cmdQuit}
	}

	if !strings.HasPrefix(input, "/") {
		return command{kind: cmdNone, arg: input}
	}

	name, arg, _ := strings.Cut(input[1:], " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "new":
		return command{kind: cmdNew}
	case "switch", "chat":
		return command{kind: cmdSwitch, arg: arg}
	case "model":
		return command{kind: cmdModel, arg: arg}
	case "attach", "file":
		return command{kind: cmdAttach, arg: arg}
	case "voice", "audio":
		return command{kind: cmdVoice, arg: arg}
	case "copy":
		return command{kind: cmdCopy}
	case "help":
		return command{kind: cmdHelp}
	default:
		// Unknown slash commands go upstream as ordinary text
		return command{kind: cmdNone, arg: input}
	}
}

const helpText = `Commands:
  /new              start a new conversation
  /switch <n>       switch to conversation n (see tabs)
  /model <name>     switch model (fast, pro); resets the conversation
  /attach <path>    stage a file for the next message
  /voice <path>     stage a voice clip for the next message
  /copy             copy the last reply to the clipboard
  /help             show this help
  /quit             exit`
