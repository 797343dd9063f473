package model

import "time"

// AudioEntryDTO is the wire shape of an entry in the remote database.
// FileURL holds the remote storage URL once the entry is mirrored.
type AudioEntryDTO struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	FileURL  string    `json:"fileURL"`
	Duration float64   `json:"duration"`
	Emotion  string    `json:"emotion,omitempty"`
	UserID   string    `json:"userId,omitempty"`
}

// UserDTO is the wire shape of the user profile in the remote
// database.
type UserDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero"`
	ProfileImageURL string    `json:"profileImageURL,omitempty"`
}

// NewAudioEntryDTO maps a local entry to its remote representation.
// remoteFileURL, when non-empty, replaces the local file reference.
func NewAudioEntryDTO(entry Entry, ownerID, remoteFileURL string) AudioEntryDTO {
	fileURL := entry.FileRef
	if remoteFileURL != "" {
		fileURL = remoteFileURL
	}
	return AudioEntryDTO{
		ID:       entry.ID.String(),
		Date:     entry.CreatedAt,
		FileURL:  fileURL,
		Duration: entry.Duration,
		Emotion:  string(entry.Emotion),
		UserID:   ownerID,
	}
}

// NewUserDTO maps the local user to its remote representation.
// imageURL, when non-empty, overrides the stored remote avatar URL.
func NewUserDTO(user User, imageURL string) UserDTO {
	if imageURL == "" {
		imageURL = user.AvatarURL
	}
	return UserDTO{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		ProfileImageURL: imageURL,
	}
}
