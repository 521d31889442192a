package relay

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assistant-gateway/internal/assistant"
	"assistant-gateway/internal/model"
	"assistant-gateway/internal/storage"
)

// Stream is one run's upstream event sequence. Recv returns io.EOF when
// the provider signals completion.
type Stream interface {
	Recv() (assistant.StreamEvent, error)
	Close() error
}

// Opener starts a streamed run for a thread against an assistant.
type Opener interface {
	StreamRun(ctx context.Context, threadID, assistantID string) (Stream, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, threadID, assistantID string) (Stream, error)

func (f OpenerFunc) StreamRun(ctx context.Context, threadID, assistantID string) (Stream, error) {
	return f(ctx, threadID, assistantID)
}

// Sink receives the client-facing frame sequence. Each content frame is
// incremental: one delta, never previously sent text.
type Sink interface {
	SendContent(delta string) error
	SendError(message string) error
	SendDone() error
}

// Relay forwards one streamed run to a sink in arrival order, then
// persists the accumulated reply as a single assistant message.
type Relay struct {
	Opener Opener
	Store  storage.Storage
	Logger *zap.Logger
}

type Request struct {
	ThreadID    string
	AssistantID string
	UserID      string
}

// Run drives a single run to completion. The frame sequence is
// [delta...], then either the done sentinel or one error frame. The
// message row is written exactly once, after the upstream sequence is
// exhausted; it is skipped on any failure.
func (r *Relay) Run(ctx context.Context, req Request, sink Sink) {
	stream, err := r.Opener.StreamRun(ctx, req.ThreadID, req.AssistantID)
	if err != nil {
		r.Logger.Error("stream open failed", zap.Error(err), zap.String("thread_id", req.ThreadID))
		r.fail(sink, err)
		return
	}
	defer stream.Close()

	var full string
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.Logger.Error("stream read failed", zap.Error(err), zap.String("thread_id", req.ThreadID))
			r.fail(sink, err)
			return
		}
		if event.Type != assistant.EventThreadMessageDelta || event.Delta == "" {
			continue
		}

		full += event.Delta
		if err := sink.SendContent(event.Delta); err != nil {
			// The client is gone; stop consuming the run and skip the
			// final write rather than persist a reply nobody received.
			r.Logger.Warn("client write failed, aborting stream", zap.Error(err), zap.String("thread_id", req.ThreadID))
			return
		}
	}

	msg := model.Message{
		ID:       uuid.NewString(),
		ThreadID: req.ThreadID,
		UserID:   req.UserID,
		Role:     model.RoleAssistant,
		Content:  full,
	}
	if err := r.Store.InsertMessage(ctx, msg); err != nil {
		r.Logger.Error("assistant message persist failed", zap.Error(err), zap.String("thread_id", req.ThreadID))
		r.fail(sink, err)
		return
	}

	if err := sink.SendDone(); err != nil {
		r.Logger.Warn("done frame write failed", zap.Error(err))
	}
}

// fail emits the error payload as the final frame; no done sentinel
// follows a failure.
func (r *Relay) fail(sink Sink, err error) {
	if sendErr := sink.SendError(err.Error()); sendErr != nil {
		r.Logger.Warn("error frame write failed", zap.Error(sendErr))
	}
}
