package dispatch

import (
	"context"

	"github.com/turnagent/core/internal/action"
	"github.com/turnagent/core/internal/files"
)

func (d *Dispatcher) handleRead(ctx context.Context, r action.Read) (string, bool) {
	return d.Files.ReadFile(ctx, r.FilePath, r.Offset, r.Limit)
}

func (d *Dispatcher) handleWrite(ctx context.Context, w action.Write) (string, bool) {
	msg, isErr := d.Files.WriteFileValidated(ctx, w.FilePath, w.Content)
	if !isErr {
		d.markCodeChange(w.FilePath)
	}
	return msg, isErr
}

func (d *Dispatcher) handleEdit(ctx context.Context, e action.Edit) (string, bool) {
	msg, isErr := d.Files.EditFile(ctx, e.FilePath, e.OldString, e.NewString, e.ReplaceAll)
	if !isErr {
		d.markCodeChange(e.FilePath)
	}
	return msg, isErr
}

func (d *Dispatcher) handleMultiEdit(ctx context.Context, me action.MultiEdit) (string, bool) {
	edits := make([]files.EditOp, len(me.Edits))
	for i, e := range me.Edits {
		edits[i] = files.EditOp{OldString: e.OldString, NewString: e.NewString, ReplaceAll: e.ReplaceAll}
	}
	msg, isErr := d.Files.MultiEditFile(ctx, me.FilePath, edits)
	if !isErr {
		d.markCodeChange(me.FilePath)
	}
	return msg, isErr
}

func (d *Dispatcher) handleFileMetadata(ctx context.Context, fm action.FileMetadata) (string, bool) {
	return d.Files.GetMetadata(ctx, fm.FilePaths)
}

// markCodeChange flips CodeChangesOccurred and tracks the path when it
// matches the curated code-file set, and invalidates any cache entry
// mentioning it.
func (d *Dispatcher) markCodeChange(path string) {
	if !files.IsCodeFile(path) {
		return
	}
	d.CodeChangesOccurred = true
	for _, existing := range d.ModifiedFiles {
		if existing == path {
			d.Cache.InvalidateFile(path)
			return
		}
	}
	d.ModifiedFiles = append(d.ModifiedFiles, path)
	d.Cache.InvalidateFile(path)
}
