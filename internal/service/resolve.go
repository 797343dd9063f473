package service

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// errRemoteRef marks a stored reference that points at the remote
// store and cannot be resolved to a local file. Callers map it to
// their own sentinel (ErrPlaybackUnavailable or ErrSourceUnavailable).
var errRemoteRef = errors.New("remote reference")

// resolveLocalRef resolves a stored file reference to a path under
// the current storage root. Stored references come in three shapes:
// a file:// URL, a bare absolute path, or a remote http(s) URL.
//
// Because the storage root can relocate across reinstalls and
// updates, only the reference's base name is trusted; the directory
// portion is replaced with the current root.
func resolveLocalRef(ref, root string) (string, error) {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return "", errRemoteRef
	}

	var base string
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err == nil && u.Path != "" {
			base = filepath.Base(u.Path)
		} else {
			// Unparseable file URL: strip the scheme and rebuild an
			// absolute path.
			trimmed := strings.TrimPrefix(ref, "file://")
			base = filepath.Base("/" + strings.Trim(trimmed, "/"))
		}
	} else {
		base = filepath.Base(ref)
	}

	return filepath.Join(root, base), nil
}
