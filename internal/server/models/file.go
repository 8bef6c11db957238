package models

import "time"

// File is the metadata record for one stored blob.
//
// DisplayName is the human filename and is not unique: the same name may
// exist under several owners at once. StorageName is the globally unique,
// immutable key of the blob in object storage; it is generated once at
// creation and never reused.
type File struct {
	ID          string
	DisplayName string
	Extension   string
	Size        int64
	StorageName string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// UploaderName is the username of the original creator, immutable.
	UploaderName string
	// EditorName is the username of the most recent writer.
	EditorName string

	// OwnerID is the owning user; ownership never transfers.
	OwnerID string
}

// FileInfo is a File annotated with the requesting user's effective access,
// as returned by listings.
type FileInfo struct {
	File
	Access AccessLevel
}
