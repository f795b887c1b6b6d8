package control

import (
	"bufio"
	"context"
	"net"
	"os"
	"time"

	"github.com/minirds/minirds/pkg/logger"
)

// Transport delivers raw inbound payloads (one or more "\n"-separated
// commands each) to a Dispatcher. Run blocks until ctx is canceled.
type Transport interface {
	Run(ctx context.Context, onPayload func(string))
}

// PipeTransport reads ASCII commands from a named pipe / FIFO. POSIX
// systems create the FIFO out of band (mkfifo); this transport only
// opens and reads it, reconnecting on EOF or a broken pipe per the
// transient-I/O error taxonomy: the control task keeps running, it is
// only the generator that ever stops outright.
type PipeTransport struct {
	Path         string
	Log          Logger
	pollInterval time.Duration
}

// NewPipeTransport creates a transport reading the named pipe at path.
func NewPipeTransport(path string, log Logger) *PipeTransport {
	return &PipeTransport{Path: path, Log: log, pollInterval: 50 * time.Millisecond}
}

// Run opens the pipe and reads lines until ctx is canceled, reopening
// it whenever the writer disconnects (EOF) so a restarted control
// client can resume sending commands without restarting the
// generator.
func (p *PipeTransport) Run(ctx context.Context, onPayload func(string)) {
	for ctx.Err() == nil {
		f, err := os.OpenFile(p.Path, os.O_RDONLY, 0)
		if err != nil {
			if p.Log != nil {
				p.Log.Warn("control: pipe open failed, retrying", logger.String("path", p.Path), logger.Error(err))
			}
			sleepOrDone(ctx, p.pollInterval)
			continue
		}
		p.readUntilEOF(ctx, f, onPayload)
		f.Close()
	}
}

func (p *PipeTransport) readUntilEOF(ctx context.Context, f *os.File, onPayload func(string)) {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		onPayload(scanner.Text())
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// TCPTransport accepts the same ASCII command grammar over localhost
// TCP connections, one command stream per connection.
type TCPTransport struct {
	Addr string
	Log  Logger
}

// NewTCPTransport creates a transport listening on addr (e.g. ":8750").
func NewTCPTransport(addr string, log Logger) *TCPTransport {
	return &TCPTransport{Addr: addr, Log: log}
}

// Run listens on Addr and reads lines from every accepted connection
// concurrently until ctx is canceled.
func (tt *TCPTransport) Run(ctx context.Context, onPayload func(string)) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", tt.Addr)
	if err != nil {
		if tt.Log != nil {
			tt.Log.Warn("control: tcp listen failed", logger.String("addr", tt.Addr), logger.Error(err))
		}
		return
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go tt.serve(ctx, conn, onPayload)
	}
}

func (tt *TCPTransport) serve(ctx context.Context, conn net.Conn, onPayload func(string)) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		onPayload(scanner.Text())
	}
}
