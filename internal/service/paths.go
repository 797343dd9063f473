package service

import (
	"fmt"
	"strings"

	"github.com/alurecine/daily-whisper/internal/model"
)

var _ model.PathResolver = RemotePaths{}

// RemotePaths is the canonical mapping from identifiers to remote
// storage paths.
type RemotePaths struct{}

// AvatarPath returns the fixed avatar location for a user.
func (RemotePaths) AvatarPath(ownerID, ext string) string {
	return fmt.Sprintf("users/%s/avatar.%s", ownerID, strings.ToLower(ext))
}

// AudioPath returns the location of an entry's audio file.
func (RemotePaths) AudioPath(ownerID, entryID, ext string) string {
	return fmt.Sprintf("users/%s/audio/%s.%s", ownerID, entryID, strings.ToLower(ext))
}
