package ws

import "testing"

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient("EVENT:1", nil, ConnInfo{})
	if hub.RoomCount() != 1 {
		t.Fatalf("expected room to be created")
	}

	hub.RemoveClient("EVENT:1", nil)
	if hub.RoomCount() != 0 {
		t.Fatalf("expected room to be removed")
	}
}

func TestHubKeepsDistinctRooms(t *testing.T) {
	hub := NewHub()

	hub.AddClient("EVENT:1", nil, ConnInfo{})
	hub.AddClient("GROUP:1", nil, ConnInfo{})
	if hub.RoomCount() != 2 {
		t.Fatalf("expected rooms with equal ids but different kinds to stay separate")
	}

	hub.RemoveClient("GROUP:1", nil)
	if hub.RoomCount() != 1 {
		t.Fatalf("expected only the group room to be removed")
	}
}
