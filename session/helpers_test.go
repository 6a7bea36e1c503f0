package session

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
)

func tokenFor(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".sig"
}

var ownerToken = tokenFor(`{"sub":"u1","email":"a@b.com","role":"OWNER"}`)

// failingSlot returns err from every operation.
type failingSlot struct {
	err     error
	cleared int
}

func (f *failingSlot) Load(context.Context) (string, error) { return "", f.err }
func (f *failingSlot) Save(context.Context, string) error   { return f.err }
func (f *failingSlot) Clear(context.Context) error {
	f.cleared++
	return f.err
}

func recordStates(t *testing.T, s *Store) *[]State {
	t.Helper()
	var seen []State
	cancel := s.Subscribe(func(st State) { seen = append(seen, st) })
	t.Cleanup(cancel)
	return &seen
}

var errBackend = errors.New("backend down")
