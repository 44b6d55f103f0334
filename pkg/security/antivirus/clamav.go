package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// clamd rejects chunks above StreamMaxLength; 64 KiB is always accepted
const chunkSize = 64 << 10

// ClamAVScanner talks to a clamd daemon over TCP or a Unix socket
type ClamAVScanner struct {
	address string
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner: address is "host:3310" or "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Available sends PING and expects PONG
func (c *ClamAVScanner) Available(ctx context.Context) bool {
	conn, err := c.dial(ctx)
	if err != nil {
		return false
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}
	reply, err := io.ReadAll(io.LimitReader(conn, 64))
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimRight(string(reply), "\x00\n"), "PONG")
}

// Scan streams data with zINSTREAM. Replies are "stream: OK",
// "stream: <threat> FOUND" or "<message> ERROR".
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(err error) ScanResult {
		result.Infected = true
		result.Error = err
		return result
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail(fmt.Errorf("clamav: send command: %w", err))
	}

	size := make([]byte, 4)
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		binary.BigEndian.PutUint32(size, uint32(end-start))
		if _, err := conn.Write(size); err != nil {
			return fail(fmt.Errorf("clamav: send chunk size: %w", err))
		}
		if _, err := conn.Write(data[start:end]); err != nil {
			return fail(fmt.Errorf("clamav: send chunk of %s: %w", filename, err))
		}
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail(fmt.Errorf("clamav: send end marker: %w", err))
	}

	raw, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil {
		return fail(fmt.Errorf("clamav: read reply: %w", err))
	}
	reply := strings.TrimSpace(strings.TrimRight(string(raw), "\x00"))

	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		threat := reply
		if _, after, ok := strings.Cut(reply, ":"); ok {
			threat = after
		}
		result.ThreatName = strings.TrimSpace(strings.TrimSuffix(threat, "FOUND"))
	case strings.HasSuffix(reply, "OK"):
		// clean
	default:
		return fail(fmt.Errorf("clamav: scan error: %s", reply))
	}
	return result
}
