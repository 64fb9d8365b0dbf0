package bridge

// Result codes. A dispatched command always produces a Result; these codes
// classify the failures. Nothing here is fatal to the host or the daemon.
const (
	// Command framing.
	ErrBadRequest     = "E_BAD_REQUEST"
	ErrUnknownCommand = "E_UNKNOWN_COMMAND"

	// Scene operations.
	ErrNotFound       = "E_NOT_FOUND"
	ErrRenameRejected = "E_RENAME_REJECTED"
	ErrNoAsset        = "E_NO_ASSET"
	ErrNoPermission   = "E_NO_PERMISSION"
	ErrInternal       = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:     {},
	ErrUnknownCommand: {},
	ErrNotFound:       {},
	ErrRenameRejected: {},
	ErrNoAsset:        {},
	ErrNoPermission:   {},
	ErrInternal:       {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
