package memtool

import (
	"context"
	"errors"
	"fmt"

	"github.com/petasbytes/memory-agent/internal/memfs"
	"github.com/petasbytes/memory-agent/internal/safety"
	"github.com/petasbytes/memory-agent/internal/telemetry"
)

// Input is the request shape of one memory command. Pointer fields distinguish
// "absent" from a deliberate empty value (e.g. new_str "" deletes text).
type Input struct {
	Command    string  `json:"command" jsonschema_description:"One of: view, create, str_replace, insert, delete, rename."`
	Path       string  `json:"path,omitempty" jsonschema_description:"Virtual path starting with /memories."`
	OldPath    string  `json:"old_path,omitempty" jsonschema_description:"Source path for rename."`
	NewPath    string  `json:"new_path,omitempty" jsonschema_description:"Destination path for rename."`
	FileText   *string `json:"file_text,omitempty" jsonschema_description:"Full file content for create."`
	OldStr     *string `json:"old_str,omitempty" jsonschema_description:"Exact text to replace; must occur exactly once."`
	NewStr     *string `json:"new_str,omitempty" jsonschema_description:"Replacement text for str_replace."`
	InsertLine *int    `json:"insert_line,omitempty" jsonschema_description:"1-based insertion point; 0 inserts before the first line."`
	InsertText *string `json:"insert_text,omitempty" jsonschema_description:"Line of text to insert."`
	ViewRange  []int   `json:"view_range,omitempty" jsonschema_description:"Inclusive [start, end] line range for view."`
}

// Result is a tagged command outcome: exactly one of Success or Error is set.
type Result struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK reports whether the command succeeded.
func (r Result) OK() bool { return r.Error == "" }

// Text returns the message carried by the result, whichever side is set.
func (r Result) Text() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Success
}

// Handler executes memory commands against one sandboxed root.
type Handler struct {
	root  string
	store *memfs.Store
}

// New creates the memory root under baseDir (if absent) and returns a handler
// bound to it. Each handler owns its root exclusively.
func New(baseDir string) (*Handler, error) {
	root, err := safety.InitMemoryRoot(baseDir)
	if err != nil {
		return nil, err
	}
	return &Handler{root: root, store: memfs.New(root)}, nil
}

// Root returns the real path of the handler's memory root.
func (h *Handler) Root() string { return h.root }

// Execute runs one command and reports its outcome. Validation failures,
// sandbox violations, and store errors all come back as Result.Error; nothing
// is raised past this boundary.
func (h *Handler) Execute(ctx context.Context, in Input) Result {
	cmd, err := parseCommand(in.Command)
	if err != nil {
		return h.done(ctx, Command(in.Command), fail("", err))
	}

	var res Result
	switch cmd {
	case CmdView:
		res = h.view(in)
	case CmdCreate:
		res = h.create(in)
	case CmdStrReplace:
		res = h.strReplace(in)
	case CmdInsert:
		res = h.insert(in)
	case CmdDelete:
		res = h.delete(in)
	case CmdRename:
		res = h.rename(in)
	case CmdClearAll:
		res = h.ClearAll()
	}
	return h.done(ctx, cmd, res)
}

// ClearAll removes every entry under the root while preserving the root.
// Exposed for hosts resetting memory between sessions.
func (h *Handler) ClearAll() Result {
	if err := h.store.ClearAll(); err != nil {
		return fail("", err)
	}
	return Result{Success: "All memory files cleared"}
}

func (h *Handler) view(in Input) Result {
	if in.Path == "" {
		return missing("path", CmdView)
	}
	real, err := safety.Resolve(h.root, in.Path)
	if err != nil {
		return fail(in.Path, err)
	}

	isDir, err := h.store.IsDir(real)
	if err != nil {
		return fail(in.Path, err)
	}
	if isDir {
		if in.ViewRange != nil {
			return Result{Error: fmt.Sprintf("view_range is not valid for directory %s", in.Path)}
		}
		entries, err := h.store.Entries(real)
		if err != nil {
			return fail(in.Path, err)
		}
		return Result{Success: renderDir(in.Path, entries)}
	}

	lines, err := h.store.Lines(real)
	if err != nil {
		return fail(in.Path, err)
	}
	body, err := renderLines(lines, in.ViewRange)
	if err != nil {
		return fail(in.Path, err)
	}
	return Result{Success: body}
}

func (h *Handler) create(in Input) Result {
	if in.Path == "" {
		return missing("path", CmdCreate)
	}
	if in.FileText == nil {
		return missing("file_text", CmdCreate)
	}
	real, err := safety.Resolve(h.root, in.Path)
	if err != nil {
		return fail(in.Path, err)
	}
	if err := h.store.Create(real, *in.FileText); err != nil {
		return fail(in.Path, err)
	}
	return Result{Success: fmt.Sprintf("File created successfully at %s", in.Path)}
}

func (h *Handler) strReplace(in Input) Result {
	if in.Path == "" {
		return missing("path", CmdStrReplace)
	}
	if in.OldStr == nil {
		return missing("old_str", CmdStrReplace)
	}
	if in.NewStr == nil {
		return missing("new_str", CmdStrReplace)
	}
	if *in.OldStr == "" {
		return Result{Error: "old_str must not be empty"}
	}
	real, err := safety.Resolve(h.root, in.Path)
	if err != nil {
		return fail(in.Path, err)
	}
	if err := h.store.StrReplace(real, *in.OldStr, *in.NewStr); err != nil {
		return fail(in.Path, err)
	}
	return Result{Success: fmt.Sprintf("Successfully replaced text in %s", in.Path)}
}

func (h *Handler) insert(in Input) Result {
	if in.Path == "" {
		return missing("path", CmdInsert)
	}
	if in.InsertLine == nil {
		return missing("insert_line", CmdInsert)
	}
	if in.InsertText == nil {
		return missing("insert_text", CmdInsert)
	}
	real, err := safety.Resolve(h.root, in.Path)
	if err != nil {
		return fail(in.Path, err)
	}
	if err := h.store.Insert(real, *in.InsertLine, *in.InsertText); err != nil {
		return fail(in.Path, err)
	}
	return Result{Success: fmt.Sprintf("Text inserted at line %d in %s", *in.InsertLine, in.Path)}
}

func (h *Handler) delete(in Input) Result {
	if in.Path == "" {
		return missing("path", CmdDelete)
	}
	real, err := safety.Resolve(h.root, in.Path)
	if err != nil {
		return fail(in.Path, err)
	}
	if err := h.store.Delete(real); err != nil {
		return fail(in.Path, err)
	}
	return Result{Success: fmt.Sprintf("Successfully deleted %s", in.Path)}
}

func (h *Handler) rename(in Input) Result {
	if in.OldPath == "" {
		return missing("old_path", CmdRename)
	}
	if in.NewPath == "" {
		return missing("new_path", CmdRename)
	}
	oldReal, err := safety.Resolve(h.root, in.OldPath)
	if err != nil {
		return fail(in.OldPath, err)
	}
	newReal, err := safety.Resolve(h.root, in.NewPath)
	if err != nil {
		return fail(in.NewPath, err)
	}
	if err := h.store.Rename(oldReal, newReal); err != nil {
		// A conflict concerns the destination; everything else the source.
		var te safety.ToolError
		if errors.As(err, &te) && te.Code == "ERR_CONFLICT" {
			return fail(in.NewPath, err)
		}
		return fail(in.OldPath, err)
	}
	return Result{Success: fmt.Sprintf("Successfully renamed %s to %s", in.OldPath, in.NewPath)}
}

// done emits command telemetry and passes the result through.
func (h *Handler) done(ctx context.Context, cmd Command, res Result) Result {
	telemetry.EmitMemoryCommand(ctx, string(cmd), res.Text(), res.OK())
	return res
}

// fail shapes an error into a Result, unwrapping ToolError messages and
// prefixing the offending virtual path when one is known.
func fail(virtualPath string, err error) Result {
	var te safety.ToolError
	if errors.As(err, &te) {
		if virtualPath != "" {
			return Result{Error: virtualPath + ": " + te.Message}
		}
		return Result{Error: te.Message}
	}
	return Result{Error: err.Error()}
}

func missing(arg string, cmd Command) Result {
	return Result{Error: fmt.Sprintf("missing required argument %q for command %q", arg, cmd)}
}
