package chatstate

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"localit/internal/models"
)

// SelfUserID is the fixed user id of the local viewer.
const SelfUserID = 999

// Store keeps chat sessions, message history and room membership in memory,
// addressed by the composite room key. It is safe for concurrent use.
//
// Closing a chat removes only its session; message and member history stay
// behind so reopening the room restores it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]models.ChatSession
	messages map[string][]models.ChatMessage
	members  map[string][]models.ChatMember
	order    map[string]int
	seq      int

	self     models.ChatMember
	contacts []models.ChatMember

	now    func() time.Time
	newID  func() string
	noSeed bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides message id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithoutSeed skips the demo dataset.
func WithoutSeed() Option {
	return func(s *Store) { s.noSeed = true }
}

// New builds a Store seeded with the demo dataset.
func New(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]models.ChatSession),
		messages: make(map[string][]models.ChatMessage),
		members:  make(map[string][]models.ChatMember),
		order:    make(map[string]int),
		self:     selfProfile(),
		contacts: directContacts(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.noSeed {
		s.seedDemoData()
	}
	return s
}

// SessionOptions carries optional session metadata for EnsureSession.
type SessionOptions struct {
	Path         string
	MembersCount *int               // event/group rooms only
	Counterpart  *models.ChatMember // direct rooms only
}

// EnsureSession upserts a session's metadata without touching its message
// history. If the room has no member list yet a default one is synthesized
// deterministically from (kind, id, title). Always succeeds.
func (s *Store) EnsureSession(kind models.RoomKind, id int, title string, opts SessionOptions) models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSessionLocked(kind, id, title, opts)
}

func (s *Store) ensureSessionLocked(kind models.RoomKind, id int, title string, opts SessionOptions) models.ChatSession {
	key := models.RoomKey(kind, id)
	sess, ok := s.sessions[key]
	if !ok {
		sess = models.ChatSession{Kind: kind, RoomID: id}
		s.seq++
		s.order[key] = s.seq
	}
	sess.Title = title
	if opts.Path != "" {
		sess.Path = opts.Path
	} else if sess.Path == "" {
		sess.Path = defaultPath(kind, id)
	}
	if kind != models.RoomDirect && opts.MembersCount != nil {
		sess.MembersCount = *opts.MembersCount
	}
	if kind == models.RoomDirect && opts.Counterpart != nil {
		counterpart := *opts.Counterpart
		sess.Counterpart = &counterpart
	}
	s.sessions[key] = sess

	if _, ok := s.members[key]; !ok {
		s.members[key] = s.defaultMembersLocked(kind, id, title)
	}
	return sess
}

// OpenEventParams describes an event chat to open.
type OpenEventParams struct {
	EventID int
	Title   string
	Members []models.ChatMember
}

// OpenEventChat ensures the event session and replaces its member list with
// the given one, or with synthesized defaults when none is provided. The
// session's member count is recomputed from the resulting list.
func (s *Store) OpenEventChat(p OpenEventParams) models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.RoomKey(models.RoomEvent, p.EventID)
	sess := s.ensureSessionLocked(models.RoomEvent, p.EventID, p.Title, SessionOptions{})
	if len(p.Members) > 0 {
		s.members[key] = dedupeMembers(p.Members)
	} else {
		s.members[key] = s.defaultMembersLocked(models.RoomEvent, p.EventID, p.Title)
	}
	sess.MembersCount = len(s.members[key])
	s.sessions[key] = sess
	return sess
}

// OpenGroupParams describes a group chat to open. MembersCount, when set,
// overrides the count derived from the member list so callers can announce
// a larger roster than the loaded sample.
type OpenGroupParams struct {
	GroupID      int
	Title        string
	MembersCount *int
	Members      []models.ChatMember
}

// OpenGroupChat ensures the group session and replaces its member list.
func (s *Store) OpenGroupChat(p OpenGroupParams) models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.RoomKey(models.RoomGroup, p.GroupID)
	sess := s.ensureSessionLocked(models.RoomGroup, p.GroupID, p.Title, SessionOptions{})
	if len(p.Members) > 0 {
		s.members[key] = dedupeMembers(p.Members)
	} else {
		s.members[key] = s.defaultMembersLocked(models.RoomGroup, p.GroupID, p.Title)
	}
	sess.MembersCount = len(s.members[key])
	if p.MembersCount != nil {
		sess.MembersCount = *p.MembersCount
	}
	s.sessions[key] = sess
	return sess
}

// OpenDirectParams describes a direct chat to open.
type OpenDirectParams struct {
	UserID    int
	Name      string
	AvatarURL string
}

// OpenDirectChat ensures a direct session whose counterpart is built fresh
// from the given fields. The member list becomes exactly [self, counterpart],
// overwriting any prior counterpart data for that id.
func (s *Store) OpenDirectChat(p OpenDirectParams) models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	counterpart := models.ChatMember{
		UserID:    p.UserID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Role:      models.RoleMember,
	}
	key := models.RoomKey(models.RoomDirect, p.UserID)
	sess := s.ensureSessionLocked(models.RoomDirect, p.UserID, p.Name, SessionOptions{Counterpart: &counterpart})
	s.members[key] = []models.ChatMember{s.self, counterpart}
	return sess
}

// Messages returns the room's message history, empty if the room is unknown.
func (s *Store) Messages(kind models.RoomKind, id int) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[models.RoomKey(kind, id)]
	out := make([]models.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// RoomMembers returns the room's member list, empty if the room is unknown.
func (s *Store) RoomMembers(kind models.RoomKind, id int) []models.ChatMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := s.members[models.RoomKey(kind, id)]
	out := make([]models.ChatMember, len(members))
	copy(out, members)
	return out
}

// Session returns the current session for a room, if any.
func (s *Store) Session(kind models.RoomKind, id int) (models.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[models.RoomKey(kind, id)]
	return sess, ok
}

// SendParams describes a message to append. SenderID, Name and AvatarURL
// matter only when FromMe is false; explicit Name/AvatarURL override the
// resolved sender's fields on the stored message.
type SendParams struct {
	Kind         models.RoomKind
	RoomID       int
	Text         string
	FromMe       bool
	SenderID     int
	Name         string
	AvatarURL    string
	Announcement bool
}

// SendMessage appends a message to the room and updates the session's last
// message and unread counter. Messages sent by the viewer never bump unread;
// any other sender bumps it by exactly one. A send to a room without a
// session still appends to history and leaves the session map untouched.
func (s *Store) SendMessage(p SendParams) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.RoomKey(p.Kind, p.RoomID)
	if _, ok := s.members[key]; !ok {
		title := ""
		if sess, ok := s.sessions[key]; ok {
			title = sess.Title
		}
		s.members[key] = s.defaultMembersLocked(p.Kind, p.RoomID, title)
	}

	sender := s.resolveSenderLocked(key, p)
	msg := models.ChatMessage{
		ID:           s.newID(),
		Kind:         p.Kind,
		RoomID:       p.RoomID,
		Text:         p.Text,
		CreatedAt:    s.now(),
		FromMe:       p.FromMe,
		SenderID:     sender.UserID,
		SenderName:   sender.Name,
		AvatarURL:    sender.AvatarURL,
		Announcement: p.Announcement,
	}
	if p.Name != "" {
		msg.SenderName = p.Name
	}
	if p.AvatarURL != "" {
		msg.AvatarURL = p.AvatarURL
	}
	s.messages[key] = append(s.messages[key], msg)

	if sess, ok := s.sessions[key]; ok {
		sess.LastMessage = msg.Text
		sess.LastMessageAt = msg.CreatedAt
		if !p.FromMe {
			sess.Unread++
		}
		s.sessions[key] = sess
	}
	return msg
}

func (s *Store) resolveSenderLocked(key string, p SendParams) models.ChatMember {
	members := s.members[key]
	if p.FromMe {
		for _, m := range members {
			if m.UserID == SelfUserID {
				return m
			}
		}
		return s.self
	}
	if p.SenderID != 0 {
		for _, m := range members {
			if m.UserID == p.SenderID {
				return m
			}
		}
	}
	return models.ChatMember{
		UserID:    p.SenderID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Role:      models.RoleMember,
	}
}

// MarkAsRead resets the session's unread counter. Unknown rooms and already
// read sessions are left untouched.
func (s *Store) MarkAsRead(kind models.RoomKind, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.RoomKey(kind, id)
	sess, ok := s.sessions[key]
	if !ok || sess.Unread == 0 {
		return
	}
	sess.Unread = 0
	s.sessions[key] = sess
}

// CloseChat removes the session entry only. History and membership for the
// room survive so a later open restores them.
func (s *Store) CloseChat(kind models.RoomKind, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, models.RoomKey(kind, id))
}

// OpenChats returns all current sessions, most recent message first.
// Sessions that never saw a message sort last; ties keep insertion order.
func (s *Store) OpenChats() []models.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.sessions))
	for key := range s.sessions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.sessions[keys[i]], s.sessions[keys[j]]
		if !a.LastMessageAt.Equal(b.LastMessageAt) {
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		return s.order[keys[i]] < s.order[keys[j]]
	})

	out := make([]models.ChatSession, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.sessions[key])
	}
	return out
}

// DirectContacts returns the fixed list of direct-chat candidates,
// independent of which direct chats are currently open.
func (s *Store) DirectContacts() []models.ChatMember {
	out := make([]models.ChatMember, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Self returns the local viewer's member profile.
func (s *Store) Self() models.ChatMember {
	return s.self
}

// defaultMembersLocked materializes a member list for a room that has none.
// Derived ids are deterministic per (kind, id) so repeated synthesis yields
// the same identities.
func (s *Store) defaultMembersLocked(kind models.RoomKind, id int, title string) []models.ChatMember {
	switch kind {
	case models.RoomDirect:
		for _, c := range s.contacts {
			if c.UserID == id {
				return []models.ChatMember{s.self, c}
			}
		}
		return []models.ChatMember{s.self, {UserID: id, Name: title, Role: models.RoleMember}}
	case models.RoomEvent:
		return []models.ChatMember{
			{UserID: 100 + id, Name: "Event host", Role: models.RoleHost, Online: true},
			{UserID: 200 + id, Name: "Guest Ana", Role: models.RoleMember},
			{UserID: 300 + id, Name: "Guest Boris", Role: models.RoleMember},
			s.self,
		}
	default: // GROUP
		return []models.ChatMember{
			{UserID: 400 + id, Name: "Group manager", Role: models.RoleManager, Online: true},
			{UserID: 500 + id, Name: "Member Vera", Role: models.RoleMember},
			{UserID: 600 + id, Name: "Member Oleg", Role: models.RoleMember},
			s.self,
		}
	}
}

func dedupeMembers(members []models.ChatMember) []models.ChatMember {
	seen := make(map[int]struct{}, len(members))
	out := make([]models.ChatMember, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func defaultPath(kind models.RoomKind, id int) string {
	return "/chats/" + strings.ToLower(string(kind)) + "/" + strconv.Itoa(id)
}
