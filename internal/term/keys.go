package term

import (
	"errors"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"pipepeek/internal/session"
)

// escTimeout is how long an ESC waits for the rest of a sequence before it
// counts as a lone Escape press.
const escTimeout = 50 * time.Millisecond

var errDecoderClosed = errors.New("key decoder closed")

type chunk struct {
	b   []byte
	err error
}

// keyDecoder turns a raw-mode byte stream into keys. A goroutine pumps reads
// into a channel so an ESC can wait a short while for a sequence that was
// split across reads.
type keyDecoder struct {
	chunks  chan chunk
	done    chan struct{}
	once    sync.Once
	timeout time.Duration

	// owned by the goroutine calling ReadKey
	buf []byte
	err error
}

func newKeyDecoder(r io.Reader, timeout time.Duration) *keyDecoder {
	d := &keyDecoder{
		chunks:  make(chan chunk, 8),
		done:    make(chan struct{}),
		timeout: timeout,
	}
	go d.pump(r)
	return d
}

func (d *keyDecoder) pump(r io.Reader) {
	for {
		p := make([]byte, 256)
		n, err := r.Read(p)
		if n > 0 && !d.send(chunk{b: p[:n]}) {
			return
		}
		if err != nil {
			d.send(chunk{err: err})
			return
		}
	}
}

func (d *keyDecoder) send(c chunk) bool {
	select {
	case d.chunks <- c:
		return true
	case <-d.done:
		return false
	}
}

// close stops the decoder; a pending ReadKey returns errDecoderClosed.
func (d *keyDecoder) close() {
	d.once.Do(func() { close(d.done) })
}

// fill waits for the next chunk, at most timeout when it is positive. It
// reports false when the wait timed out.
func (d *keyDecoder) fill(timeout time.Duration) bool {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case c := <-d.chunks:
		d.buf = append(d.buf, c.b...)
		if c.err != nil {
			d.err = c.err
		}
	case <-d.done:
		d.err = errDecoderClosed
	case <-expired:
		return false
	}
	return true
}

// next returns the next byte. ok is false when nothing arrived within
// timeout or the stream ended; err is then the stream error, if any.
func (d *keyDecoder) next(timeout time.Duration) (b byte, ok bool, err error) {
	for len(d.buf) == 0 {
		if d.err != nil {
			return 0, false, d.err
		}
		if !d.fill(timeout) {
			return 0, false, nil
		}
	}
	b = d.buf[0]
	d.buf = d.buf[1:]
	return b, true, nil
}

func (d *keyDecoder) unread(b byte) {
	d.buf = append([]byte{b}, d.buf...)
}

// ReadKey blocks until the next key. Stream errors are returned once any
// bytes read before them have been decoded.
func (d *keyDecoder) ReadKey() (session.Key, error) {
	b, _, err := d.next(0)
	if err != nil {
		return session.Key{}, err
	}
	switch {
	case b == 0x1b:
		return d.escape(), nil
	case b == '\r' || b == '\n':
		return session.EnterKey(), nil
	case b == 0x7f || b == 0x08:
		return session.BackspaceKey(), nil
	case b == 0x03:
		return session.InterruptKey(), nil
	case b < 0x20:
		return session.IgnoredKey(), nil
	case b < utf8.RuneSelf:
		return session.RuneKey(rune(b)), nil
	}
	return d.multibyte(b), nil
}

// multibyte completes a UTF-8 sequence started by lead. Invalid sequences
// are ignored; a byte that cannot continue the sequence is kept for the
// next key.
func (d *keyDecoder) multibyte(lead byte) session.Key {
	var n int
	switch {
	case lead&0xe0 == 0xc0:
		n = 2
	case lead&0xf0 == 0xe0:
		n = 3
	case lead&0xf8 == 0xf0:
		n = 4
	default:
		return session.IgnoredKey()
	}
	p := []byte{lead}
	for len(p) < n {
		b, ok, _ := d.next(d.timeout)
		if !ok {
			return session.IgnoredKey()
		}
		if b&0xc0 != 0x80 {
			d.unread(b)
			return session.IgnoredKey()
		}
		p = append(p, b)
	}
	r, size := utf8.DecodeRune(p)
	if r == utf8.RuneError && size <= 1 {
		return session.IgnoredKey()
	}
	return session.RuneKey(r)
}

// escape handles the bytes after ESC. A lone ESC, Alt chords and sequences
// other than arrows and Delete are ignored.
func (d *keyDecoder) escape() session.Key {
	next, ok, _ := d.next(d.timeout)
	if !ok {
		return session.IgnoredKey()
	}
	switch next {
	case '[':
		return d.csi()
	case 'O':
		final, ok, _ := d.next(d.timeout)
		if !ok {
			return session.IgnoredKey()
		}
		if k, ok := arrow(final); ok {
			return k
		}
	}
	return session.IgnoredKey()
}

func (d *keyDecoder) csi() session.Key {
	seq := make([]byte, 0, 8)
	for {
		b, ok, _ := d.next(d.timeout)
		if !ok {
			return session.IgnoredKey()
		}
		seq = append(seq, b)
		// final byte of a CSI sequence
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if len(seq) > 16 {
			return session.IgnoredKey()
		}
	}
	final := seq[len(seq)-1]
	if k, ok := arrow(final); ok {
		return k
	}
	if final == '~' && string(seq[:len(seq)-1]) == "3" {
		return session.BackspaceKey()
	}
	return session.IgnoredKey()
}

func arrow(b byte) (session.Key, bool) {
	switch b {
	case 'A':
		return session.ArrowKey(session.Up), true
	case 'B':
		return session.ArrowKey(session.Down), true
	case 'C':
		return session.ArrowKey(session.Right), true
	case 'D':
		return session.ArrowKey(session.Left), true
	}
	return session.Key{}, false
}
