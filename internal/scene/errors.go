package scene

import "errors"

// ErrAssetNotFound reports an asset reference that resolves to nothing the
// host can spawn.
var ErrAssetNotFound = errors.New("scene: asset not found")
