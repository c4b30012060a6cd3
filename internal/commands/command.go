package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	TypeToggle        Type = "toggle"
	TypeAdd           Type = "add"
	TypeRemove        Type = "rm"
	TypeSection       Type = "section"
	TypeRename        Type = "rename"
	TypeRemoveSection Type = "rmsection"
	TypeReset         Type = "reset"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ToggleArgs struct {
	Section string
	Task    string
}

type AddArgs struct {
	Section string
	Name    string
	XP      int
	DueAt   *time.Time
}

type RemoveArgs struct {
	Section string
	Task    string
}

type SectionArgs struct {
	Name string
	Icon string
}

type RenameArgs struct {
	Section string
	Name    string
	Icon    string
}

type RemoveSectionArgs struct {
	Section string
}

type Command struct {
	Type          Type
	Raw           string
	Toggle        *ToggleArgs
	Add           *AddArgs
	Remove        *RemoveArgs
	Section       *SectionArgs
	Rename        *RenameArgs
	RemoveSection *RemoveSectionArgs
}

// Parse turns a palette line into a typed command. Sections and tasks
// are referenced by name or id; resolution happens in the UI layer.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeToggle:
		return parseToggle(input, args)
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeSection:
		return parseSection(input, args)
	case TypeRename:
		return parseRename(input, args)
	case TypeRemoveSection:
		return parseRemoveSection(input, args)
	case TypeReset:
		return Command{Type: TypeReset, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseToggle(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "toggle requires section and task"}
	}
	return Command{Type: TypeToggle, Raw: raw, Toggle: &ToggleArgs{
		Section: args[0],
		Task:    strings.Join(args[1:], " "),
	}}, nil
}

// parseAdd handles: add <section> <task name...> [xp:N] [due:RFC3339]
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires section and task name"}
	}
	out := AddArgs{Section: args[0], XP: 10}
	words := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "xp:"):
			xp, err := strconv.Atoi(strings.TrimPrefix(lower, "xp:"))
			if err != nil || xp <= 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "xp must be a positive integer"}
			}
			out.XP = xp
		case strings.HasPrefix(lower, "due:"):
			at, err := time.Parse(time.RFC3339, strings.TrimPrefix(arg, "due:"))
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "due must be RFC3339"}
			}
			out.DueAt = &at
		default:
			words = append(words, arg)
		}
	}
	out.Name = strings.TrimSpace(strings.Join(words, " "))
	if out.Name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rm requires section and task"}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{
		Section: args[0],
		Task:    strings.Join(args[1:], " "),
	}}, nil
}

// parseSection handles: section <name...> [icon:X]
func parseSection(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "section requires a name"}
	}
	out := SectionArgs{Icon: "📌"}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "icon:") {
			out.Icon = strings.TrimPrefix(arg, "icon:")
			continue
		}
		words = append(words, arg)
	}
	out.Name = strings.TrimSpace(strings.Join(words, " "))
	if out.Name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "section requires a name"}
	}
	return Command{Type: TypeSection, Raw: raw, Section: &out}, nil
}

func parseRename(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rename requires section and new name"}
	}
	out := RenameArgs{Section: args[0]}
	words := make([]string, 0, len(args)-1)
	for _, arg := range args[1:] {
		if strings.HasPrefix(strings.ToLower(arg), "icon:") {
			out.Icon = strings.TrimPrefix(arg, "icon:")
			continue
		}
		words = append(words, arg)
	}
	out.Name = strings.TrimSpace(strings.Join(words, " "))
	if out.Name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rename requires a new name"}
	}
	return Command{Type: TypeRename, Raw: raw, Rename: &out}, nil
}

func parseRemoveSection(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rmsection requires exactly one section"}
	}
	return Command{Type: TypeRemoveSection, Raw: raw, RemoveSection: &RemoveSectionArgs{Section: args[0]}}, nil
}
