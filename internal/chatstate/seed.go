package chatstate

import (
	"time"

	"localit/internal/models"
)

func selfProfile() models.ChatMember {
	return models.ChatMember{
		UserID: SelfUserID,
		Name:   "You",
		Role:   models.RoleMember,
		Online: true,
	}
}

func directContacts() []models.ChatMember {
	return []models.ChatMember{
		{UserID: 7, Name: "Marta Ivanova", AvatarURL: "/avatars/marta.png", Role: models.RoleMember, Online: true},
		{UserID: 11, Name: "Pavel Seto", AvatarURL: "/avatars/pavel.png", Role: models.RoleMember},
		{UserID: 23, Name: "Dina Kraus", Role: models.RoleMember, Online: true},
		{UserID: 42, Name: "Tomas Lind", AvatarURL: "/avatars/tomas.png", Role: models.RoleMember},
	}
}

// seedDemoData loads one event, one group and one direct room with sample
// history so the chat surface has content before any real activity.
func (s *Store) seedDemoData() {
	base := s.now().Add(-2 * time.Hour)

	event := s.ensureSessionLocked(models.RoomEvent, 12, "Sunday Picnic at Riverside", SessionOptions{})
	eventKey := models.RoomKey(event.Kind, event.RoomID)
	s.appendSeedMessage(eventKey, models.ChatMessage{
		Kind: models.RoomEvent, RoomID: 12,
		Text:       "Welcome everyone, gates open at noon!",
		CreatedAt:  base,
		SenderID:   112, SenderName: "Event host",
		Announcement: true,
	})
	s.appendSeedMessage(eventKey, models.ChatMessage{
		Kind: models.RoomEvent, RoomID: 12,
		Text:      "Should we bring anything?",
		CreatedAt: base.Add(10 * time.Minute),
		SenderID:  212, SenderName: "Guest Ana",
	})

	group := s.ensureSessionLocked(models.RoomGroup, 3, "Neighbourhood Runners", SessionOptions{})
	groupKey := models.RoomKey(group.Kind, group.RoomID)
	s.appendSeedMessage(groupKey, models.ChatMessage{
		Kind: models.RoomGroup, RoomID: 3,
		Text:      "Saturday run moved to 9:00, same meeting point.",
		CreatedAt: base.Add(30 * time.Minute),
		SenderID:  403, SenderName: "Group manager",
	})

	direct := s.ensureSessionLocked(models.RoomDirect, 7, "Marta Ivanova", SessionOptions{})
	directKey := models.RoomKey(direct.Kind, direct.RoomID)
	s.appendSeedMessage(directKey, models.ChatMessage{
		Kind: models.RoomDirect, RoomID: 7,
		Text:      "Hey, are you coming to the picnic?",
		CreatedAt: base.Add(45 * time.Minute),
		SenderID:  7, SenderName: "Marta Ivanova", AvatarURL: "/avatars/marta.png",
	})
	s.appendSeedMessage(directKey, models.ChatMessage{
		Kind: models.RoomDirect, RoomID: 7,
		Text:      "Yes! See you there.",
		CreatedAt: base.Add(50 * time.Minute),
		FromMe:    true,
		SenderID:  SelfUserID, SenderName: s.self.Name,
	})
}

func (s *Store) appendSeedMessage(key string, msg models.ChatMessage) {
	msg.ID = s.newID()
	s.messages[key] = append(s.messages[key], msg)

	sess := s.sessions[key]
	sess.LastMessage = msg.Text
	sess.LastMessageAt = msg.CreatedAt
	if !msg.FromMe {
		sess.Unread++
	}
	s.sessions[key] = sess
}
