package models

import (
	"fmt"
	"time"
)

// RoomKind distinguishes the three chat room flavours.
type RoomKind string

const (
	RoomEvent  RoomKind = "EVENT"
	RoomGroup  RoomKind = "GROUP"
	RoomDirect RoomKind = "DIRECT"
)

// Valid reports whether the kind is one of the known room kinds.
func (k RoomKind) Valid() bool {
	return k == RoomEvent || k == RoomGroup || k == RoomDirect
}

// RoomKey builds the composite key addressing all per-room state.
// No two rooms share a key; the kind is never inferred from the id alone.
func RoomKey(kind RoomKind, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// MemberRole is the role a member holds inside a room.
type MemberRole string

const (
	RoleHost    MemberRole = "HOST"
	RoleManager MemberRole = "MANAGER"
	RoleMember  MemberRole = "MEMBER"
)

// ChatSession is the list-view summary record for a room.
type ChatSession struct {
	Kind          RoomKind    `json:"kind"`
	RoomID        int         `json:"room_id"`
	Title         string      `json:"title"`
	Path          string      `json:"path"`
	Unread        int         `json:"unread"`
	LastMessage   string      `json:"last_message,omitempty"`
	LastMessageAt time.Time   `json:"last_message_at,omitempty"`
	MembersCount  int         `json:"members_count,omitempty"`
	Counterpart   *ChatMember `json:"counterpart,omitempty"`
}

// ChatMessage is a single message in a room. Messages are append-only
// and immutable once created.
type ChatMessage struct {
	ID           string    `json:"id"`
	Kind         RoomKind  `json:"kind"`
	RoomID       int       `json:"room_id"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	FromMe       bool      `json:"from_me"`
	SenderID     int       `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Announcement bool      `json:"is_announcement,omitempty"`
}

// ChatMember is a room participant.
type ChatMember struct {
	UserID    int        `json:"user_id"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Role      MemberRole `json:"role,omitempty"`
	Online    bool       `json:"online,omitempty"`
}

// ChatEvent is broadcasted through websockets.
type ChatEvent struct {
	Type    string       `json:"type"`
	Message *ChatMessage `json:"message,omitempty"`
	RoomKey string       `json:"room_key,omitempty"`
}
