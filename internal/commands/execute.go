package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Toggle        func(ToggleArgs) (Result, error)
	Add           func(AddArgs) (Result, error)
	Remove        func(RemoveArgs) (Result, error)
	Section       func(SectionArgs) (Result, error)
	Rename        func(RenameArgs) (Result, error)
	RemoveSection func(RemoveSectionArgs) (Result, error)
	Reset         func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeToggle:
		if handlers.Toggle == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "toggle handler not configured"}
		}
		return handlers.Toggle(*cmd.Toggle)
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "rm handler not configured"}
		}
		return handlers.Remove(*cmd.Remove)
	case TypeSection:
		if handlers.Section == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "section handler not configured"}
		}
		return handlers.Section(*cmd.Section)
	case TypeRename:
		if handlers.Rename == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "rename handler not configured"}
		}
		return handlers.Rename(*cmd.Rename)
	case TypeRemoveSection:
		if handlers.RemoveSection == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "rmsection handler not configured"}
		}
		return handlers.RemoveSection(*cmd.RemoveSection)
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "reset handler not configured"}
		}
		return handlers.Reset()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
