package notify

import "sync"

// Toggles is the typed per-channel enabled/disabled configuration,
// injected into the Dispatcher at construction. The settings service
// refreshes it when an admin updates the notification settings, so
// lookups never hit the database on the dispatch path.
type Toggles struct {
	mu       sync.RWMutex
	email    bool
	sms      bool
	whatsapp bool
}

// NewToggles returns toggles with every channel enabled, the default
// when no setting row exists.
func NewToggles() *Toggles {
	return &Toggles{email: true, sms: true, whatsapp: true}
}

// Enabled reports whether a channel may be used. Unknown channels are
// disabled.
func (t *Toggles) Enabled(ch Channel) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch ch {
	case ChannelEmail:
		return t.email
	case ChannelSMS:
		return t.sms
	case ChannelWhatsApp:
		return t.whatsapp
	default:
		return false
	}
}

// Set replaces all three toggles atomically.
func (t *Toggles) Set(email, sms, whatsapp bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.email = email
	t.sms = sms
	t.whatsapp = whatsapp
}
