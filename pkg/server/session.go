package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/markup"
	"github.com/vango-dev/fibre/pkg/protocol"
	"github.com/vango-dev/fibre/pkg/scheduler"
	"github.com/vango-dev/fibre/pkg/stream"
)

// session drives renders for one WebSocket connection.
type session struct {
	config *Config
	conn   *websocket.Conn
	logger *slog.Logger

	host  *stream.Host
	idle  *scheduler.LoopIdle
	sched *scheduler.Scheduler

	writeMu sync.Mutex

	mu    sync.Mutex
	tasks []*scheduler.Task
}

func newSession(config *Config, conn *websocket.Conn, logger *slog.Logger) *session {
	s := &session{
		config: config,
		conn:   conn,
		logger: logger,
		host:   stream.NewHost(config.MountID),
		idle:   scheduler.NewLoopIdle(config.SliceBudget, config.SliceGap),
	}

	opts := []scheduler.Option{
		scheduler.WithThreshold(config.Threshold),
		scheduler.WithPolicy(config.Policy),
		scheduler.WithLogger(logger.With("component", "scheduler")),
		scheduler.WithProperties(config.Properties),
	}
	if config.Metrics != nil {
		opts = append(opts, scheduler.WithMetrics(config.Metrics))
	}
	if config.Tracer != nil {
		opts = append(opts, scheduler.WithTracer(config.Tracer))
	}
	s.sched = scheduler.New(s.host, flushingIdle{inner: s.idle, after: s.afterSlice}, opts...)
	return s
}

// serve renders el, then reads render requests until the connection closes.
func (s *session) serve(ctx context.Context, el *element.Element) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	go func() {
		_ = s.idle.Run(ctx)
	}()

	s.logger.Info("connection opened")
	s.render(ctx, el)

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		kind, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("connection read failed", "error", err)
			}
			break
		}
		if kind != websocket.TextMessage {
			continue
		}
		next, err := markup.ParseHTML(string(msg))
		if err != nil {
			s.sendFailure(protocol.NewFailure(0, err))
			continue
		}
		s.render(ctx, next)
	}
	s.logger.Info("connection closed")
}

func (s *session) render(ctx context.Context, el *element.Element) {
	mount, err := s.host.GetNodeByID(s.config.MountID)
	if err != nil {
		s.sendFailure(protocol.NewFailure(0, err))
		return
	}

	// mu spans Render so afterSlice never sees an untracked task.
	s.mu.Lock()
	task, err := s.sched.RenderContext(ctx, el, mount)
	if err != nil {
		s.mu.Unlock()
		s.sendFailure(protocol.NewFailure(0, err))
		return
	}
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
}

// afterSlice flushes the slice's ops and reports renders that ended.
func (s *session) afterSlice() {
	if _, err := s.host.Flush(s); err != nil {
		s.logger.Warn("flush failed", "error", err)
		return
	}

	s.mu.Lock()
	var ended []*scheduler.Task
	live := s.tasks[:0]
	for _, task := range s.tasks {
		select {
		case <-task.Done():
			ended = append(ended, task)
		default:
			live = append(live, task)
		}
	}
	s.tasks = live
	s.mu.Unlock()

	for _, task := range ended {
		if err := task.Err(); err != nil {
			s.sendFailure(protocol.NewFailure(task.ID, err))
			continue
		}
		done := protocol.Done{
			RenderID: task.ID,
			Units:    uint64(task.Units()),
			Slices:   uint64(task.Slices()),
		}
		_ = s.sendFrame(protocol.NewFrame(protocol.FrameDone, protocol.EncodeDone(done)))
	}
}

// Send implements stream.Sink.
func (s *session) Send(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *session) sendFrame(f *protocol.Frame) error {
	if err := s.Send(f.Encode()); err != nil {
		s.logger.Warn("frame write failed", "frame", f.Type.String(), "error", err)
		return err
	}
	return nil
}

func (s *session) sendFailure(f protocol.Failure) {
	if f.Code == "" {
		f.Code = errors.CodeRenderFailed
	}
	_ = s.sendFrame(protocol.NewFrame(protocol.FrameError, protocol.EncodeFailure(f)))
}

// flushingIdle runs after once every slice granted to a callback.
type flushingIdle struct {
	inner scheduler.IdleHost
	after func()
}

func (f flushingIdle) RequestIdleCallback(cb scheduler.IdleCallback) {
	f.inner.RequestIdleCallback(func(d scheduler.Deadline) {
		cb(d)
		f.after()
	})
}
