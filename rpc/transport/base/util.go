package base

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ValentinKolb/sKV/rpc/common"
	"github.com/ValentinKolb/sKV/rpc/transport"
)

const (
	// lingerTimeout bounds how long unread input is drained before closing a connection
	lingerTimeout = 500 * time.Millisecond
	// lingerMaxBytes bounds how much unread input is drained
	lingerMaxBytes = 4 << 20
)

// closeWriter is implemented by *net.TCPConn and *net.UnixConn
type closeWriter interface {
	CloseWrite() error
}

// bufferSizer is implemented by *net.TCPConn and *net.UnixConn
type bufferSizer interface {
	SetReadBuffer(bytes int) error
	SetWriteBuffer(bytes int) error
}

// closeWrite shuts down the write side of conn, signaling end of input to the peer
func closeWrite(conn net.Conn) error {
	cw, ok := conn.(closeWriter)
	if !ok {
		return fmt.Errorf("%T does not support half-close", conn)
	}
	return cw.CloseWrite()
}

// ApplySocketConf sets the socket buffer sizes of conn if configured
func ApplySocketConf(conn net.Conn, conf common.SocketConf) error {
	bs, ok := conn.(bufferSizer)
	if !ok {
		return nil
	}
	if conf.WriteBufferSize > 0 {
		if err := bs.SetWriteBuffer(conf.WriteBufferSize); err != nil {
			return err
		}
	}
	if conf.ReadBufferSize > 0 {
		if err := bs.SetReadBuffer(conf.ReadBufferSize); err != nil {
			return err
		}
	}
	return nil
}

// readAll reads until end of input. If maxBytes > 0 and the input is longer,
// transport.ErrRequestTooLarge is returned.
func readAll(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, transport.ErrRequestTooLarge
	}
	return data, nil
}

// lingeringClose shuts down the write side and discards unread input before closing,
// so the peer receives the response instead of a connection reset
func lingeringClose(conn net.Conn) {
	if err := closeWrite(conn); err != nil {
		return
	}
	_ = conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, lingerMaxBytes))
}
