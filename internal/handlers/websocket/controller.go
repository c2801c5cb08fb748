package websocket

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/liuwen-dev/vocana/internal/domains/chat"
	"github.com/liuwen-dev/vocana/internal/types"
	"github.com/liuwen-dev/vocana/pkg/Logger"
	"github.com/liuwen-dev/vocana/pkg/assistant"
	"github.com/liuwen-dev/vocana/pkg/assistant/gateway"
	"github.com/liuwen-dev/vocana/pkg/io/audiobuf"
)

// Session states. A session walks connecting -> bound -> active and then
// bounces between active and streaming until it closes.
const (
	StateConnecting = "connecting"
	StateBound      = "bound"
	StateActive     = "active"
	StateStreaming  = "streaming"
	StateClosed     = "closed"
)

const (
	EventBind        = "bind"
	EventActivate    = "activate"
	EventStreamStart = "stream_start"
	EventStreamEnd   = "stream_end"
	EventClose       = "close"
)

// FrameSink is where the controller emits outbound frames; a Session is
// one, tests substitute a recorder.
type FrameSink interface {
	Send(frame interface{}) error
}

// Transcriber converts one audio payload to text; empty text means the
// model is unavailable or rejected the result.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// WakeWordGate classifies transcribed text as wake-triggering or ordinary.
type WakeWordGate func(text string) bool

// ModelGateway produces the fragment stream for one model turn.
type ModelGateway interface {
	Stream(ctx context.Context, model assistant.ModelDescriptor, turns []assistant.Turn) <-chan gateway.Fragment
}

// errTransport marks failures of the outbound connection itself; the
// session cannot continue past one.
type errTransport struct{ err error }

func (e errTransport) Error() string { return fmt.Sprintf("transport failure: %v", e.err) }
func (e errTransport) Unwrap() error { return e.err }

// Controller owns one duplex connection end-to-end: it routes inbound
// frames, persists both sides of every exchange and relays streamed model
// output. One inbound frame is fully processed, streaming included, before
// the next is read.
type Controller struct {
	userID         string
	conversationID string
	selectedModel  string

	sink        FrameSink
	machine     *fsm.FSM
	audio       *audiobuf.Buffer
	chatService chat.ChatService
	assembler   *chat.ContextAssembler
	registry    *assistant.Registry
	gw          ModelGateway
	transcriber Transcriber
	wake        WakeWordGate
	historyN    int
	logger      *Logger.Logger
}

type ControllerDeps struct {
	ChatService  chat.ChatService
	Assembler    *chat.ContextAssembler
	Registry     *assistant.Registry
	Gateway      ModelGateway
	Transcriber  Transcriber
	WakeWordGate WakeWordGate
	HistoryLimit int
	AudioBufSize int
	Logger       *Logger.Logger
}

func NewController(userID, selectedModel string, sink FrameSink, deps ControllerDeps) *Controller {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 10
	}
	if deps.AudioBufSize <= 0 {
		deps.AudioBufSize = 1024 * 1024
	}
	return &Controller{
		userID:        userID,
		selectedModel: selectedModel,
		sink:          sink,
		machine: fsm.NewFSM(
			StateConnecting,
			fsm.Events{
				{Name: EventBind, Src: []string{StateConnecting}, Dst: StateBound},
				{Name: EventActivate, Src: []string{StateBound}, Dst: StateActive},
				{Name: EventStreamStart, Src: []string{StateActive}, Dst: StateStreaming},
				{Name: EventStreamEnd, Src: []string{StateStreaming}, Dst: StateActive},
				{Name: EventClose, Src: []string{StateConnecting, StateBound, StateActive, StateStreaming}, Dst: StateClosed},
			},
			fsm.Callbacks{},
		),
		audio:       audiobuf.New(deps.AudioBufSize),
		chatService: deps.ChatService,
		assembler:   deps.Assembler,
		registry:    deps.Registry,
		gw:          deps.Gateway,
		transcriber: deps.Transcriber,
		wake:        deps.WakeWordGate,
		historyN:    deps.HistoryLimit,
		logger:      deps.Logger,
	}
}

func (c *Controller) State() string          { return c.machine.Current() }
func (c *Controller) ConversationID() string { return c.conversationID }

// Bind attaches the session to its conversation. A supplied id that is
// unknown, closed or owned by someone else silently falls back to a fresh
// conversation; only a brand new conversation announces itself.
func (c *Controller) Bind(ctx context.Context, requestedConversationID string) error {
	conv, created, err := c.chatService.GetOrCreateConversation(ctx, c.userID, requestedConversationID)
	if err != nil {
		return fmt.Errorf("failed to bind conversation: %w", err)
	}
	c.conversationID = conv.ID
	if err := c.machine.Event(ctx, EventBind); err != nil {
		return err
	}
	if created {
		if err := c.sink.Send(NewConversationCreatedFrame(conv.ID)); err != nil {
			return errTransport{err}
		}
	}
	return nil
}

// ReplayHistory emits the most recent persisted messages, oldest first, and
// moves the session to its main loop state.
func (c *Controller) ReplayHistory(ctx context.Context) error {
	msgs, err := c.chatService.ListMessages(ctx, c.userID, c.conversationID, c.historyN)
	if err != nil {
		return fmt.Errorf("failed to replay history: %w", err)
	}
	if err := c.sink.Send(NewHistoryFrame(msgs)); err != nil {
		return errTransport{err}
	}
	return c.machine.Event(ctx, EventActivate)
}

// HandleFrame processes one inbound frame to completion. The frame is
// persisted before any dispatch; recoverable failures are reported on the
// sink and return nil, only transport failures propagate.
func (c *Controller) HandleFrame(ctx context.Context, frame ClientFrame) error {
	if _, err := c.chatService.SaveMessage(ctx, c.userID, c.conversationID, types.MessageType(frame.Type), frame.Data, true); err != nil {
		c.logger.Errorf("failed to persist inbound frame: %v", err)
		return c.sendRecoverable(NewErrorFrame("failed to record your message, please retry"))
	}

	switch frame.Type {
	case FrameAudio:
		return c.handleAudio(ctx, frame.Data)
	case FrameWait:
		if err := c.sink.Send(NewWaitingFrame()); err != nil {
			return errTransport{err}
		}
		return nil
	case FrameText:
		return c.handleText(ctx, frame.Data)
	default:
		// persisted above, no processing branch
		c.logger.Debugf("ignoring unknown frame type %q", frame.Type)
		return nil
	}
}

// BufferAudioFrame stores one binary audio frame until the next audio flush
// message drains it into the transcriber.
func (c *Controller) BufferAudioFrame(data []byte) {
	if err := c.audio.Enqueue(data); err != nil {
		c.logger.Warnf("dropping audio frame: %v", err)
	}
}

func (c *Controller) handleAudio(ctx context.Context, payload string) error {
	audio := c.audio.Drain()
	if payload != "" {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return c.sendRecoverable(NewErrorFrame("audio payload is not valid base64"))
		}
		audio = append(audio, decoded...)
	}

	text, err := c.transcriber.Transcribe(ctx, audio)
	if err != nil {
		c.logger.Errorf("transcription failed: %v", err)
		return c.sendRecoverable(NewErrorFrame("transcription failed, please try again"))
	}
	if text == "" {
		return c.sendRecoverable(NewErrorFrame("could not recognize any speech"))
	}

	var out interface{}
	if c.wake(text) {
		out = NewWakeWordFrame(text)
	} else {
		out = NewTranscriptionFrame(text)
	}
	if err := c.sink.Send(out); err != nil {
		return errTransport{err}
	}

	if _, err := c.chatService.SaveMessage(ctx, c.userID, c.conversationID, types.MessageTranscription, text, false); err != nil {
		c.logger.Errorf("failed to persist transcription: %v", err)
		return c.sendRecoverable(NewErrorFrame("failed to record the transcription"))
	}
	return nil
}

func (c *Controller) handleText(ctx context.Context, text string) error {
	if !c.registry.IsEnabled(c.selectedModel) {
		return c.sendRecoverable(NewUnsupportedModelFrame(c.selectedModel, c.registry.EnabledNames()))
	}
	if err := c.sink.Send(NewTextReceivedFrame(text, c.selectedModel)); err != nil {
		return errTransport{err}
	}

	if err := c.machine.Event(ctx, EventStreamStart); err != nil {
		return err
	}
	err := c.streamModelTurn(ctx)
	if c.machine.Can(EventStreamEnd) {
		_ = c.machine.Event(ctx, EventStreamEnd)
	}
	return err
}

// streamModelTurn relays the model response fragment by fragment while
// accumulating it, then persists the whole turn. A dropped connection
// mid-stream cancels production and discards what was received: partial
// responses are never persisted.
func (c *Controller) streamModelTurn(ctx context.Context) error {
	desc, ok := c.registry.Describe(c.selectedModel)
	if !ok {
		return c.sendRecoverable(NewUnsupportedModelFrame(c.selectedModel, c.registry.EnabledNames()))
	}

	turns, err := c.assembler.Build(ctx, c.userID, c.conversationID)
	if err != nil {
		c.logger.Errorf("failed to assemble context: %v", err)
		return c.sendRecoverable(NewErrorFrame("failed to load conversation context"))
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments := c.gw.Stream(streamCtx, desc, turns)

	var accumulated string
	for fragment := range fragments {
		if err := c.sink.Send(NewModelStreamFrame(fragment.Text, c.selectedModel)); err != nil {
			cancel()
			for range fragments {
				// drain until the producer observes the cancel and closes
			}
			return errTransport{err}
		}
		accumulated += fragment.Text
	}

	if err := c.sink.Send(NewModelStreamEndFrame(c.selectedModel)); err != nil {
		return errTransport{err}
	}

	if accumulated == "" {
		if err := c.chatService.TouchConversation(ctx, c.conversationID); err != nil {
			c.logger.Warnf("failed to touch conversation %s: %v", c.conversationID, err)
		}
		return nil
	}
	if _, err := c.chatService.SaveMessage(ctx, c.userID, c.conversationID, types.MessageModelResponse, accumulated, false); err != nil {
		c.logger.Errorf("failed to persist model response: %v", err)
		return c.sendRecoverable(NewErrorFrame("failed to record the model response"))
	}
	return nil
}

// Shutdown moves the controller to its terminal state.
func (c *Controller) Shutdown() {
	if c.machine.Can(EventClose) {
		_ = c.machine.Event(context.Background(), EventClose)
	}
	c.audio.Reset()
}

// sendRecoverable reports a contained, per-turn failure. Only the send
// itself failing escalates to a transport error.
func (c *Controller) sendRecoverable(frame ErrorFrame) error {
	if err := c.sink.Send(frame); err != nil {
		return errTransport{err}
	}
	return nil
}
