package chatstate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localit/internal/models"
)

func newTestStore() *Store {
	var tick int
	var ids int
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return New(
		WithoutSeed(),
		WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("msg-%d", ids)
		}),
	)
}

func TestEnsureSessionIsIdempotent(t *testing.T) {
	store := newTestStore()

	first := store.EnsureSession(models.RoomGroup, 5, "Runners", SessionOptions{})
	second := store.EnsureSession(models.RoomGroup, 5, "Runners", SessionOptions{})

	require.Equal(t, first, second)
	require.Len(t, store.OpenChats(), 1)
	require.Len(t, store.RoomMembers(models.RoomGroup, 5), 4)
}

func TestEnsureSessionDoesNotTouchHistory(t *testing.T) {
	store := newTestStore()

	store.EnsureSession(models.RoomEvent, 2, "Picnic", SessionOptions{})
	store.SendMessage(SendParams{Kind: models.RoomEvent, RoomID: 2, Text: "hello", FromMe: true})

	store.EnsureSession(models.RoomEvent, 2, "Picnic (renamed)", SessionOptions{})

	msgs := store.Messages(models.RoomEvent, 2)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text)

	sess, ok := store.Session(models.RoomEvent, 2)
	require.True(t, ok)
	assert.Equal(t, "Picnic (renamed)", sess.Title)
}

func TestMessageOrderingAndLastMessage(t *testing.T) {
	store := newTestStore()
	store.EnsureSession(models.RoomGroup, 1, "g", SessionOptions{})

	store.SendMessage(SendParams{Kind: models.RoomGroup, RoomID: 1, Text: "m1", FromMe: true})
	store.SendMessage(SendParams{Kind: models.RoomGroup, RoomID: 1, Text: "m2", FromMe: true})
	m3 := store.SendMessage(SendParams{Kind: models.RoomGroup, RoomID: 1, Text: "m3", FromMe: true})

	msgs := store.Messages(models.RoomGroup, 1)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].Text)
	assert.Equal(t, "m2", msgs[1].Text)
	assert.Equal(t, "m3", msgs[2].Text)

	sess, ok := store.Session(models.RoomGroup, 1)
	require.True(t, ok)
	assert.Equal(t, "m3", sess.LastMessage)
	assert.Equal(t, m3.CreatedAt, sess.LastMessageAt)
}

func TestUnreadAccounting(t *testing.T) {
	store := newTestStore()
	store.EnsureSession(models.RoomDirect, 7, "Marta", SessionOptions{})

	for i := 0; i < 3; i++ {
		store.SendMessage(SendParams{Kind: models.RoomDirect, RoomID: 7, Text: "hi", SenderID: 7})
	}
	sess, _ := store.Session(models.RoomDirect, 7)
	require.Equal(t, 3, sess.Unread)

	store.MarkAsRead(models.RoomDirect, 7)
	sess, _ = store.Session(models.RoomDirect, 7)
	require.Equal(t, 0, sess.Unread)

	store.SendMessage(SendParams{Kind: models.RoomDirect, RoomID: 7, Text: "reply", FromMe: true})
	sess, _ = store.Session(models.RoomDirect, 7)
	require.Equal(t, 0, sess.Unread)
}

func TestCloseThenReopenPreservesHistory(t *testing.T) {
	store := newTestStore()
	store.OpenDirectChat(OpenDirectParams{UserID: 42, Name: "Tomas"})

	store.SendMessage(SendParams{Kind: models.RoomDirect, RoomID: 42, Text: "one", FromMe: true})
	store.SendMessage(SendParams{Kind: models.RoomDirect, RoomID: 42, Text: "two", SenderID: 42})

	store.CloseChat(models.RoomDirect, 42)
	_, open := store.Session(models.RoomDirect, 42)
	require.False(t, open)
	assert.Empty(t, store.OpenChats())

	// History outlives the session.
	require.Len(t, store.Messages(models.RoomDirect, 42), 2)

	store.OpenDirectChat(OpenDirectParams{UserID: 42, Name: "Tomas"})
	msgs := store.Messages(models.RoomDirect, 42)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
	require.Len(t, store.OpenChats(), 1)
}

func TestSendToUnknownRoomAppendsWithoutSession(t *testing.T) {
	store := newTestStore()

	store.SendMessage(SendParams{Kind: models.RoomGroup, RoomID: 99, Text: "orphan", FromMe: true})

	require.Len(t, store.Messages(models.RoomGroup, 99), 1)
	_, ok := store.Session(models.RoomGroup, 99)
	assert.False(t, ok)
	assert.Empty(t, store.OpenChats())
}

func TestDefaultMemberSynthesisIsDeterministic(t *testing.T) {
	store := newTestStore()

	store.EnsureSession(models.RoomEvent, 4, "Picnic", SessionOptions{})
	first := store.RoomMembers(models.RoomEvent, 4)
	store.CloseChat(models.RoomEvent, 4)
	store.EnsureSession(models.RoomEvent, 4, "Picnic", SessionOptions{})
	second := store.RoomMembers(models.RoomEvent, 4)

	require.Equal(t, first, second)
	require.Len(t, first, 4)
	assert.Equal(t, 104, first[0].UserID)
	assert.Equal(t, models.RoleHost, first[0].Role)
	assert.Equal(t, 204, first[1].UserID)
	assert.Equal(t, 304, first[2].UserID)
	assert.Equal(t, SelfUserID, first[3].UserID)
}

func TestDirectSynthesisPrefersKnownContact(t *testing.T) {
	store := newTestStore()

	store.EnsureSession(models.RoomDirect, 7, "whoever", SessionOptions{})
	members := store.RoomMembers(models.RoomDirect, 7)
	require.Len(t, members, 2)
	assert.Equal(t, SelfUserID, members[0].UserID)
	assert.Equal(t, "Marta Ivanova", members[1].Name)

	store.EnsureSession(models.RoomDirect, 1000, "Stranger", SessionOptions{})
	members = store.RoomMembers(models.RoomDirect, 1000)
	require.Len(t, members, 2)
	assert.Equal(t, "Stranger", members[1].Name)
}

func TestGroupMembersCountOverride(t *testing.T) {
	store := newTestStore()

	override := 250
	sess := store.OpenGroupChat(OpenGroupParams{GroupID: 9, Title: "Big Group", MembersCount: &override})
	assert.Equal(t, 250, sess.MembersCount)
	// The loaded roster keeps its own length.
	assert.Len(t, store.RoomMembers(models.RoomGroup, 9), 4)

	sess = store.OpenGroupChat(OpenGroupParams{GroupID: 9, Title: "Big Group"})
	assert.Equal(t, 4, sess.MembersCount)
}

func TestOpenDirectChatOverwritesCounterpart(t *testing.T) {
	store := newTestStore()

	store.OpenDirectChat(OpenDirectParams{UserID: 11, Name: "Old Name"})
	store.OpenDirectChat(OpenDirectParams{UserID: 11, Name: "New Name", AvatarURL: "/a.png"})

	sess, ok := store.Session(models.RoomDirect, 11)
	require.True(t, ok)
	require.NotNil(t, sess.Counterpart)
	assert.Equal(t, "New Name", sess.Counterpart.Name)
	assert.Equal(t, "/a.png", sess.Counterpart.AvatarURL)

	members := store.RoomMembers(models.RoomDirect, 11)
	require.Len(t, members, 2)
	assert.Equal(t, "New Name", members[1].Name)
}

func TestOpenChatsSortedByLastMessage(t *testing.T) {
	store := newTestStore()

	store.EnsureSession(models.RoomEvent, 1, "silent", SessionOptions{})
	store.EnsureSession(models.RoomGroup, 2, "older", SessionOptions{})
	store.EnsureSession(models.RoomDirect, 3, "newer", SessionOptions{})

	store.SendMessage(SendParams{Kind: models.RoomGroup, RoomID: 2, Text: "first", FromMe: true})
	store.SendMessage(SendParams{Kind: models.RoomDirect, RoomID: 3, Text: "second", FromMe: true})

	chats := store.OpenChats()
	require.Len(t, chats, 3)
	assert.Equal(t, "newer", chats[0].Title)
	assert.Equal(t, "older", chats[1].Title)
	// Never-messaged sessions sort last.
	assert.Equal(t, "silent", chats[2].Title)
}

func TestSenderResolution(t *testing.T) {
	store := newTestStore()
	store.EnsureSession(models.RoomEvent, 6, "Picnic", SessionOptions{})

	mine := store.SendMessage(SendParams{Kind: models.RoomEvent, RoomID: 6, Text: "hi", FromMe: true})
	assert.Equal(t, SelfUserID, mine.SenderID)
	assert.Equal(t, "You", mine.SenderName)

	known := store.SendMessage(SendParams{Kind: models.RoomEvent, RoomID: 6, Text: "yo", SenderID: 106})
	assert.Equal(t, "Event host", known.SenderName)

	stranger := store.SendMessage(SendParams{Kind: models.RoomEvent, RoomID: 6, Text: "sup", SenderID: 777, Name: "Drop-in"})
	assert.Equal(t, 777, stranger.SenderID)
	assert.Equal(t, "Drop-in", stranger.SenderName)
}

func TestSeededStoreHasDemoRooms(t *testing.T) {
	store := New()

	chats := store.OpenChats()
	require.Len(t, chats, 3)
	require.NotEmpty(t, store.Messages(models.RoomEvent, 12))
	require.NotEmpty(t, store.Messages(models.RoomGroup, 3))
	require.Len(t, store.Messages(models.RoomDirect, 7), 2)
	require.Len(t, store.DirectContacts(), 4)
}
