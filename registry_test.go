package honeybadger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPluginRegistry_RunsInOrderUntilClaimed(t *testing.T) {
	r := NewPluginRegistry()
	var calls []string

	r.Add(PluginFunc(func(p *Payload) (bool, error) {
		calls = append(calls, "first")
		p.Error.Tags = append(p.Error.Tags, "first")
		return false, nil
	}))
	r.Add(PluginFunc(func(p *Payload) (bool, error) {
		calls = append(calls, "second")
		p.Request = &RequestInfo{Component: "claimed"}
		return true, nil
	}))
	r.Add(PluginFunc(func(p *Payload) (bool, error) {
		calls = append(calls, "third")
		return true, nil
	}))

	payload := &Payload{}
	failures := r.Decorate(payload, zap.NewNop())

	assert.Empty(t, failures)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, []string{"first"}, payload.Error.Tags)
	assert.Equal(t, "claimed", payload.Request.Component)
	assert.Equal(t, 3, r.Len())
}

func TestPluginRegistry_FailingPluginsAreSkipped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewPluginRegistry()

	r.Add(PluginFunc(func(p *Payload) (bool, error) {
		return true, errors.New("no framework")
	}))
	r.Add(PluginFunc(func(p *Payload) (bool, error) {
		panic("plugin bug")
	}))
	r.Add(PluginFunc(func(p *Payload) (bool, error) {
		p.Error.Fingerprint = "reached"
		return false, nil
	}))

	payload := &Payload{Error: ErrorInfo{Token: "token"}}
	failures := r.Decorate(payload, zap.New(core))

	require.Len(t, failures, 2)
	for _, err := range failures {
		assert.ErrorIs(t, err, ErrPluginFailed)
	}
	assert.Contains(t, failures[1].Error(), "plugin bug")
	assert.Equal(t, "reached", payload.Error.Fingerprint)

	entries := logs.FilterMessage("Payload plugin failed, skipping it").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "token", entries[0].ContextMap()["token"])
}

func TestPluginRegistry_Empty(t *testing.T) {
	assert.Empty(t, NewPluginRegistry().Decorate(&Payload{}, zap.NewNop()))
}
