package bridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"stagelink.dev/internal/identity"
	"stagelink.dev/internal/persistence/journal"
	"stagelink.dev/internal/pose"
	"stagelink.dev/internal/scene"
	"stagelink.dev/internal/textform"
)

// parseFunc validates a command's argument text and fills the entry's input
// fields, including the operation kind. applyFunc executes a filled entry
// against the scope. Keeping the halves separate is what lets replay feed
// recorded inputs straight into the appliers.
type (
	parseFunc func(e *journal.Entry, rest string) Result
	applyFunc func(b *Bridge, e *journal.Entry) Result
)

var parsers = map[string]parseFunc{
	"TransformObject": parseTransform,
	"RenameObject":    parseRename,
	"AddObject":       parseAdd,
	"DeleteObjects":   parseDelete,
	"FreeName":        parseFreeName,
}

var appliers = map[string]applyFunc{
	journal.OpTransform: applyTransform,
	journal.OpRename:    applyRename,
	journal.OpSpawn:     applySpawn,
	journal.OpDelete:    applyDelete,
	journal.OpFreeName:  applyFreeName,
}

func fail(code, format string, args ...any) Result {
	return Result{Code: code, Message: fmt.Sprintf(format, args...)}
}

func succeed(value string, notes ...string) Result {
	return Result{OK: true, Value: value, Message: strings.Join(notes, "; ")}
}

// TransformObject <object> [marker text]
func parseTransform(e *journal.Entry, rest string) Result {
	obj, text := splitCommand(rest)
	if obj == "" {
		return fail(ErrBadRequest, "TransformObject needs an object name")
	}
	e.Op = journal.OpTransform
	e.Object = obj
	e.Text = text
	return Result{OK: true}
}

func applyTransform(b *Bridge, e *journal.Entry) Result {
	obj, ok := b.scope.FindByName(scene.ParseName(e.Object))
	if !ok {
		return fail(ErrNotFound, "no object %q in %s", e.Object, e.Scope)
	}
	pose.ApplyText(obj, e.Text)
	return succeed("")
}

// RenameObject <object> <candidate>
// The candidate is the rest of the line; it may contain characters the
// sanitizer will strip, including spaces.
func parseRename(e *journal.Entry, rest string) Result {
	obj, candidate := splitCommand(rest)
	if obj == "" || candidate == "" {
		return fail(ErrBadRequest, "RenameObject needs an object name and a candidate")
	}
	e.Op = journal.OpRename
	e.Object = obj
	e.Requested = candidate
	return Result{OK: true}
}

func applyRename(b *Bridge, e *journal.Entry) Result {
	obj, ok := b.scope.FindByName(scene.ParseName(e.Object))
	if !ok {
		return fail(ErrNotFound, "no object %q in %s", e.Object, e.Scope)
	}
	sanitized := identity.Sanitize(e.Requested)
	want := scene.ParseName(sanitized)
	before := obj.Name()

	got := identity.Rename(b.scope, obj, e.Requested)

	var notes []string
	if sanitized != e.Requested {
		notes = append(notes, fmt.Sprintf("candidate sanitized to %q", sanitized))
	}
	if !got.Equal(want) {
		if got.Equal(before) {
			// The host kept the old identifier; the result still names it.
			res := fail(ErrRenameRejected, "host refused %q, kept %q", want, got)
			res.Value = got.String()
			return res
		}
		notes = append(notes, fmt.Sprintf("host assigned %q", got))
	}
	return succeed(got.String(), notes...)
}

// AddObject <asset> <name> [marker text]
func parseAdd(e *journal.Entry, rest string) Result {
	asset, rest := splitCommand(rest)
	name, text := splitCommand(rest)
	if asset == "" || name == "" {
		return fail(ErrBadRequest, "AddObject needs an asset and an object name")
	}
	e.Op = journal.OpSpawn
	e.Asset = asset
	e.Requested = name
	e.Text = text
	return Result{OK: true}
}

func applySpawn(b *Bridge, e *journal.Entry) Result {
	ref, ok := b.assets.Resolve(e.Asset)
	if !ok {
		return fail(ErrNoAsset, "asset %q is not in the table", e.Asset)
	}
	name := identity.FreeName(b.scope, e.Requested)

	// Spawn directly at the marker location when one is given; the rest of
	// the patch is applied after creation like any other update.
	at := mgl64.Vec3{}
	patch := pose.Decode(e.Text)
	if patch.Location != nil {
		at = *patch.Location
	}

	obj, err := identity.Spawn(b.scope, ref, name, at)
	if err != nil {
		if errors.Is(err, scene.ErrAssetNotFound) {
			return fail(ErrNoAsset, "asset %q: %v", e.Asset, err)
		}
		return fail(ErrInternal, "spawn %q: %v", e.Asset, err)
	}
	if !patch.Empty() {
		pose.Apply(obj, patch)
	}

	got := obj.Name()
	var notes []string
	if sanitized := identity.Sanitize(e.Requested); sanitized != e.Requested {
		notes = append(notes, fmt.Sprintf("candidate sanitized to %q", sanitized))
	}
	if !got.Equal(name) {
		notes = append(notes, fmt.Sprintf("host assigned %q", got))
	}
	return succeed(got.String(), notes...)
}

// DeleteObjects [a,b,c]
func parseDelete(e *journal.Entry, rest string) Result {
	if rest == "" {
		return fail(ErrBadRequest, "DeleteObjects needs a list of object names")
	}
	e.Op = journal.OpDelete
	e.Names = textform.ParseList(rest)
	return Result{OK: true}
}

func applyDelete(b *Bridge, e *journal.Entry) Result {
	d, ok := b.scope.(scene.Destroyer)
	if !ok {
		return fail(ErrNoPermission, "scope %s cannot destroy objects", e.Scope)
	}
	destroyed := 0
	for _, raw := range e.Names {
		name := scene.ParseName(strings.TrimSpace(raw))
		if name.IsNone() {
			continue
		}
		obj, found := b.scope.FindByName(name)
		if !found {
			continue
		}
		if d.Destroy(obj) {
			destroyed++
		}
	}
	return succeed("", fmt.Sprintf("destroyed %d of %d", destroyed, len(e.Names)))
}

// FreeName <candidate>
func parseFreeName(e *journal.Entry, rest string) Result {
	if rest == "" {
		return fail(ErrBadRequest, "FreeName needs a candidate name")
	}
	e.Op = journal.OpFreeName
	e.Requested = rest
	return Result{OK: true}
}

func applyFreeName(b *Bridge, e *journal.Entry) Result {
	name := identity.FreeName(b.scope, e.Requested)
	var notes []string
	if sanitized := identity.Sanitize(e.Requested); sanitized != e.Requested {
		notes = append(notes, fmt.Sprintf("candidate sanitized to %q", sanitized))
	}
	return succeed(name.String(), notes...)
}
