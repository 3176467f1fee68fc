package domain

// Member is the directory view of a member used by the location finder.
//
// The directory is owned by the host platform; we only read from it.
type Member struct {
	ID      MemberID
	Subject SubjectID

	DisplayName string
	AvatarURL   string
	ProfileURL  string

	// ProfileType is the member's primary profile type key (empty when none).
	ProfileType      string
	ProfileTypeLabel string
}
