package domain

// SubjectID is the authenticated subject forwarded by the identity front end.
// We model it as an opaque identifier: its format is controlled by the identity provider.
type SubjectID string

// MemberID is the directory identifier for a member.
type MemberID string
