package types

// SessionUpdatedMsg is sent whenever the session store's state changes.
type SessionUpdatedMsg struct{}

// SubmitSettledMsg is sent when a submission's network round trip settles.
type SubmitSettledMsg struct{}

// RoomCreatedMsg is sent when the new-room call settles.
type RoomCreatedMsg struct {
	RoomID string
	Err    error
}

// RoomDeletedMsg is sent when the delete-room call settles.
type RoomDeletedMsg struct {
	Title string
	Err   error
}

// RoomsRefreshedMsg is sent when the room list refresh settles.
type RoomsRefreshedMsg struct {
	Err error
}
