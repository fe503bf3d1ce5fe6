package discord

// Permissions is the 53-bit permission bitmask.
type Permissions uint64

const (
	PermissionCreateInstantInvite Permissions = 1 << iota
	PermissionKickMembers
	PermissionBanMembers
	PermissionAdministrator
	PermissionManageChannels
	PermissionManageServer
	_
	_
	_
	_
	PermissionReadMessages
	PermissionSendMessages
	PermissionSendTTSMessages
	PermissionManageMessages
	PermissionEmbedLinks
	PermissionAttachFiles
	PermissionReadMessageHistory
	PermissionMentionEveryone
)

// Has returns true if p contains all of the given permission bits.
func (p Permissions) Has(perm Permissions) bool {
	return p&perm == perm
}

type Role struct {
	ID          Snowflake   `json:"id"`
	Name        string      `json:"name"`
	Color       uint32      `json:"color"`
	Hoist       bool        `json:"hoist"`
	Position    int         `json:"position"`
	Permissions Permissions `json:"permissions"`
	Managed     bool        `json:"managed,omitempty"`
}

// Mention returns the mention form of the role.
func (r Role) Mention() string {
	return "<@&" + r.ID.String() + ">"
}
