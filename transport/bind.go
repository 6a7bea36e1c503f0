package transport

import "github.com/MrEthical07/goRate/session"

// Publisher is the subscription half of a session store.
type Publisher interface {
	Subscribe(fn session.Listener) func()
}

// Bind keeps the Authorization default of t in step with the session
// published by store. It applies the current session immediately. The
// returned func detaches without touching the header.
func Bind(store Publisher, t *Transport) func() {
	return store.Subscribe(func(st session.State) {
		if raw := st.Credential(); st.SignedIn() && raw != "" {
			t.Headers().Set(HeaderAuthorization, "Bearer "+raw)
			return
		}
		t.Headers().Del(HeaderAuthorization)
	})
}
