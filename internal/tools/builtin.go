package tools

import (
	"encoding/json"
	"fmt"
)

// Builtin tool names as they appear in the embedded tool index. These names
// are reserved: routing checks them before attempting a namespace split.
const (
	NameFsRead      = "fs_read"
	NameFsWrite     = "fs_write"
	NameExecuteBash = "execute_bash"
	NameUseAws      = "use_aws"
	NameReportIssue = "report_issue"
)

// FsRead reads a file or lists a directory.
type FsRead struct {
	Path      string `json:"path"`
	ReadRange []int  `json:"read_range,omitempty"`
}

func (*FsRead) isTool() {}

func (t *FsRead) validate() error {
	if t.Path == "" {
		return fmt.Errorf("missing required field: path")
	}
	if len(t.ReadRange) > 2 {
		return fmt.Errorf("read_range takes at most two line numbers")
	}
	return nil
}

// FsWrite creates or edits a file.
type FsWrite struct {
	Command    string `json:"command"`
	Path       string `json:"path"`
	FileText   string `json:"file_text,omitempty"`
	OldStr     string `json:"old_str,omitempty"`
	NewStr     string `json:"new_str,omitempty"`
	InsertLine *int   `json:"insert_line,omitempty"`
}

func (*FsWrite) isTool() {}

func (t *FsWrite) validate() error {
	if t.Command == "" {
		return fmt.Errorf("missing required field: command")
	}
	if t.Path == "" {
		return fmt.Errorf("missing required field: path")
	}
	switch t.Command {
	case "create", "str_replace", "insert", "append":
		return nil
	default:
		return fmt.Errorf("unknown command: %s", t.Command)
	}
}

// ExecuteBash runs a shell command.
type ExecuteBash struct {
	Command string `json:"command"`
}

func (*ExecuteBash) isTool() {}

func (t *ExecuteBash) validate() error {
	if t.Command == "" {
		return fmt.Errorf("missing required field: command")
	}
	return nil
}

// UseAws makes an AWS CLI API call.
type UseAws struct {
	ServiceName   string         `json:"service_name"`
	OperationName string         `json:"operation_name"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	Region        string         `json:"region"`
	ProfileName   string         `json:"profile_name,omitempty"`
	Label         string         `json:"label,omitempty"`
}

func (*UseAws) isTool() {}

func (t *UseAws) validate() error {
	if t.ServiceName == "" {
		return fmt.Errorf("missing required field: service_name")
	}
	if t.OperationName == "" {
		return fmt.Errorf("missing required field: operation_name")
	}
	if t.Region == "" {
		return fmt.Errorf("missing required field: region")
	}
	return nil
}

// ReportIssue opens a prefilled issue report.
type ReportIssue struct {
	Title            string `json:"title"`
	ExpectedBehavior string `json:"expected_behavior,omitempty"`
	ActualBehavior   string `json:"actual_behavior,omitempty"`
	StepsToReproduce string `json:"steps_to_reproduce,omitempty"`
}

func (*ReportIssue) isTool() {}

func (t *ReportIssue) validate() error {
	if t.Title == "" {
		return fmt.Errorf("missing required field: title")
	}
	return nil
}

type validator interface {
	Tool
	validate() error
}

// ParseBuiltin deserializes args into the builtin shape registered under
// name. ok is false when name is not a reserved builtin, in which case the
// caller should treat it as a namespaced provider tool.
func ParseBuiltin(name string, args json.RawMessage) (t Tool, ok bool, err error) {
	var v validator
	switch name {
	case NameFsRead:
		v = &FsRead{}
	case NameFsWrite:
		v = &FsWrite{}
	case NameExecuteBash:
		v = &ExecuteBash{}
	case NameUseAws:
		v = &UseAws{}
	case NameReportIssue:
		v = &ReportIssue{}
	default:
		return nil, false, nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return nil, true, err
	}
	if err := v.validate(); err != nil {
		return nil, true, err
	}
	return v, true, nil
}
