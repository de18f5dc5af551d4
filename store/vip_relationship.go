package store

// VIPRelationship is one requester's tracking entry for a workspace user.
// The pair (VIPUserID, AddedBy) is unique; removal flips Active instead of
// deleting the row so summary history keeps a valid reference.
type VIPRelationship struct {
	ID          int64
	VIPUserID   string // platform user ID of the tracked contact
	Username    string
	DisplayName string
	AddedBy     string // platform user ID of the owner of this entry
	AddedAt     int64  // unix seconds
	Active      bool
}

type CreateVIPRelationship struct {
	VIPUserID   string
	Username    string
	DisplayName string
	AddedBy     string
	AddedAt     int64
}

type FindVIPRelationship struct {
	VIPUserID *string
	Username  *string
	AddedBy   *string
	Active    *bool
}
