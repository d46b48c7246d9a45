package models

// Group visibility levels, mirroring the community platform's values.
const (
	GroupVisibilityPublic   = 0
	GroupVisibilityLoggedIn = 1
	GroupVisibilityMembers  = 2
	GroupVisibilityStaff    = 3
	GroupVisibilityOwners   = 4
)

// Group is a named account group used to scope the directory listing.
type Group struct {
	ID                     int64  `db:"id" json:"id"`
	Name                   string `db:"name" json:"name"`
	VisibilityLevel        int    `db:"visibility_level" json:"visibility_level"`
	MembersVisibilityLevel int    `db:"members_visibility_level" json:"members_visibility_level"`
}
