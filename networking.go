package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"net"
	"sync"
)

// NewPipeListener connects the render window to the config window in
// process. The listener hands out the single server end once.
func NewPipeListener(ctx context.Context) (client net.Conn, listener net.Listener) {
	clientPipe, listenerPipe := net.Pipe()
	l := &pipeListener{
		pipe: listenerPipe,
		done: make(chan struct{}),
	}

	context.AfterFunc(ctx, func() {
		l.Close()
		clientPipe.Close()
	})
	return clientPipe, l
}

type pipeListener struct {
	mu       sync.Mutex
	pipe     net.Conn
	accepted bool
	done     chan struct{}
	once     sync.Once
}

func (p *pipeListener) Accept() (net.Conn, error) {
	p.mu.Lock()
	if !p.accepted {
		p.accepted = true
		p.mu.Unlock()
		return p.pipe, nil
	}
	p.mu.Unlock()

	<-p.done
	return nil, net.ErrClosed
}

func (p *pipeListener) Close() error {
	var err error
	p.once.Do(func() {
		close(p.done)
		err = p.pipe.Close()
	})
	return err
}

func (p *pipeListener) Addr() net.Addr {
	return p.pipe.LocalAddr()
}

// sendMessages gob-encodes every message from send until ctx is done.
func sendMessages(ctx context.Context, conn net.Conn, send <-chan interface{}) error {
	enc := gob.NewEncoder(conn)
	for {
		select {
		case msg := <-send:
			if err := enc.Encode(&msg); err != nil {
				return fmt.Errorf("sending %T: %w", msg, err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// receiveMessages decodes messages and passes them to handle until the
// connection fails.
func receiveMessages(conn net.Conn, handle func(msg interface{})) error {
	dec := gob.NewDecoder(conn)
	for {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("receiving: %w", err)
		}
		handle(v)
	}
}

// handleConn runs both directions of conn and cancels quit with the first
// failure. Failures after ctx is done are expected and ignored.
func handleConn(
	ctx context.Context,
	quit context.CancelCauseFunc,
	conn net.Conn,
	send <-chan interface{},
	handle func(msg interface{}),
) {
	fail := func(err error) {
		if err != nil && ctx.Err() == nil {
			quit(err)
		}
	}

	go func() {
		defer CatchPanicToContext(quit)
		fail(sendMessages(ctx, conn, send))
	}()
	go func() {
		defer CatchPanicToContext(quit)
		defer conn.Close()
		fail(receiveMessages(conn, handle))
	}()
}
