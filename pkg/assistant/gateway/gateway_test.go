package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
)

// scriptedStreamer plays back a fixed set of fragments, or fails.
type scriptedStreamer struct {
	fragments []string
	err       error
}

func (s *scriptedStreamer) ChatStream(ctx context.Context, model string, turns []assistant.Turn, emit func(string) error) error {
	for _, f := range s.fragments {
		if err := emit(f); err != nil {
			return err
		}
	}
	return s.err
}

func testLogger() *Logger.Logger {
	return Logger.New(false)
}

func qwenModel() assistant.ModelDescriptor {
	return assistant.ModelDescriptor{Name: "qwen-max", Provider: assistant.ProviderQwen, Enabled: true}
}

func collect(ch <-chan Fragment) []Fragment {
	var out []Fragment
	for f := range ch {
		out = append(out, f)
	}
	return out
}

func TestStreamRelaysFragmentsInOrder(t *testing.T) {
	provider := &scriptedStreamer{fragments: []string{"你好", "，", "世界"}}
	gw := New(provider, nil, nil, testLogger())

	got := collect(gw.Stream(context.Background(), qwenModel(), nil))

	require.Len(t, got, 3)
	var accumulated string
	for _, f := range got {
		accumulated += f.Text
	}
	assert.Equal(t, "你好，世界", accumulated)
}

func TestStreamAlwaysClosesOnProviderFailure(t *testing.T) {
	provider := &scriptedStreamer{
		fragments: []string{"partial"},
		err:       errors.New("upstream exploded"),
	}
	gw := New(provider, nil, nil, testLogger())

	got := collect(gw.Stream(context.Background(), qwenModel(), nil))

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, Apology, last.Text)
	assert.True(t, last.Final)
}

func TestStreamSkipsEmptyFragments(t *testing.T) {
	provider := &scriptedStreamer{fragments: []string{"", "a", "", "b"}}
	gw := New(provider, nil, nil, testLogger())

	got := collect(gw.Stream(context.Background(), qwenModel(), nil))

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "b", got[1].Text)
}

func TestStreamCancellationSuppressesApology(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// a producer that keeps emitting until emit refuses
	endless := &endlessStreamer{}
	gw := New(endless, nil, nil, testLogger())

	ch := gw.Stream(ctx, qwenModel(), nil)

	// take one fragment, then walk away
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a fragment before cancelling")
	}
	cancel()

	// the channel must close without an apology fragment
	deadline := time.After(time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return
			}
			assert.NotEqual(t, Apology, f.Text, "cancelled stream must not apologize")
		case <-deadline:
			t.Fatal("stream did not terminate after cancel")
		}
	}
}

func TestStreamStubsUnwiredProvider(t *testing.T) {
	// no providers attached at all
	gw := New(nil, nil, nil, testLogger())

	got := collect(gw.Stream(context.Background(), qwenModel(), nil))

	require.Len(t, got, 1)
	assert.Equal(t, stubPlaceholder, got[0].Text)
}

func TestStreamStubsUnknownProvider(t *testing.T) {
	gw := New(&scriptedStreamer{fragments: []string{"never"}}, nil, nil, testLogger())
	model := assistant.ModelDescriptor{Name: "claude-3", Provider: assistant.ProviderAnthropic, Enabled: true}

	got := collect(gw.Stream(context.Background(), model, nil))

	require.Len(t, got, 1)
	assert.Equal(t, stubPlaceholder, got[0].Text)
}

type endlessStreamer struct{}

func (s *endlessStreamer) ChatStream(ctx context.Context, model string, turns []assistant.Turn, emit func(string) error) error {
	for {
		if err := emit("tick"); err != nil {
			return err
		}
	}
}
