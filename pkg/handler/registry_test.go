package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestrohq/maestro/pkg/command"
)

type fakeHandler struct {
	name    string
	aliases []string
}

func (f *fakeHandler) Name() string                         { return f.name }
func (f *fakeHandler) Aliases() []string                    { return f.aliases }
func (f *fakeHandler) Description() string                  { return "fake" }
func (f *fakeHandler) Parameters() []Parameter              { return nil }
func (f *fakeHandler) CanHandle(command.ParsedCommand) bool { return true }
func (f *fakeHandler) Execute(_ context.Context, _ *command.Command) (*command.Result, error) {
	return command.TextResult("ok"), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "analyze", aliases: []string{"scan"}}))

	h, ok := r.Get("analyze")
	require.True(t, ok)
	assert.Equal(t, "analyze", h.Name())

	// Lookup is case-insensitive and alias-aware.
	_, ok = r.Get("ANALYZE")
	assert.True(t, ok)
	_, ok = r.Get("scan")
	assert.True(t, ok)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Collisions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "analyze", aliases: []string{"scan"}}))

	assert.Error(t, r.Register(&fakeHandler{name: "analyze"}))
	assert.Error(t, r.Register(&fakeHandler{name: "ANALYZE"}))
	assert.Error(t, r.Register(&fakeHandler{name: "scan"}))
	assert.Error(t, r.Register(&fakeHandler{name: "other", aliases: []string{"analyze"}}))
	assert.Error(t, r.Register(&fakeHandler{name: ""}))
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "help", aliases: []string{"h"}}))

	assert.Equal(t, "help", r.Resolve("h"))
	assert.Equal(t, "help", r.Resolve("help"))
	assert.Equal(t, "help", r.Resolve(r.Resolve("h")))
	assert.Equal(t, "unknown", r.Resolve("unknown"))
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "help", aliases: []string{"h"}}))

	assert.True(t, r.Unregister("help"))
	assert.False(t, r.Unregister("help"))

	_, ok := r.Get("help")
	assert.False(t, ok)
	_, ok = r.Get("h")
	assert.False(t, ok, "aliases must go with the handler")
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeHandler{name: "status"}))
	require.NoError(t, r.Register(&fakeHandler{name: "analyze"}))
	require.NoError(t, r.Register(&fakeHandler{name: "help"}))

	assert.Equal(t, []string{"analyze", "help", "status"}, r.Names())

	handlers := r.Handlers()
	require.Len(t, handlers, 3)
	assert.Equal(t, "analyze", handlers[0].Name())
}
