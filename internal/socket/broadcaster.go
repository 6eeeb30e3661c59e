package socket

// Broadcaster pushes screen updates to the tabs of one browser session.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// PublishListRefreshed sends the freshly applied list of a screen.
func (b *Broadcaster) PublishListRefreshed(sid, kind string, items any, count int) {
	b.hub.SendToRoom(SessionRoom(sid), MessageListRefreshed, map[string]any{
		"kind":  kind,
		"items": items,
		"count": count,
	})
}

// SessionExpired tells open tabs to send the user back to login.
func (b *Broadcaster) SessionExpired(sid string) {
	b.hub.SendToRoom(SessionRoom(sid), MessageSessionExpired, map[string]any{
		"relogin": true,
	})
}
