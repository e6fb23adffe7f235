package satchel

import (
	"io"
	"os"

	"github.com/satchel-cli/satchel/internal/pool"
)

// responseSigil introduces a response-file reference: the rest of the
// token is a path whose contents are spliced into the token stream.
const responseSigil = '@'

// token is one lexical unit produced by the tokenizer.
type token struct {
	// text is the quote-stripped token body; raw is the body exactly
	// as scanned.
	text string
	raw  string

	// delim is the value delimiter that ended the name part when
	// attached is set.
	delim byte

	// attached marks a name part followed immediately by an attached
	// value with no intervening whitespace.
	attached bool

	// value marks the continuation read holding that attached value;
	// hadText distinguishes an empty attached value ("--name=") from a
	// quoted empty one ("--name=\"\"").
	value   bool
	hadText bool

	// badQuote defers a malformed-quoting diagnostic to the token's
	// value phase.
	badQuote bool
}

// frame is one expanded response file: its contents and a cursor. The
// argument vector itself is not a frame; it is the bottom of the
// logical source.
type frame struct {
	data []byte
	pos  int

	// storage is the pooled backing buffer for file contents, returned
	// when the frame pops. Nil for argv-backed frames.
	storage *[]byte
}

func (f *frame) exhausted() bool { return f.pos >= len(f.data) }

func (f *frame) skipSpace() {
	for f.pos < len(f.data) && isSpace(f.data[f.pos]) {
		f.pos++
	}
}

// scanRun consumes a maximal run of non-whitespace bytes. Whitespace
// between a matching pair of quote bytes does not end the run; an
// unterminated quote runs to the end of the frame.
func (f *frame) scanRun() []byte {
	start := f.pos
	var quote byte
	for f.pos < len(f.data) {
		c := f.data[f.pos]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case isSpace(c):
			return f.data[start:f.pos]
		case c == '"' || c == '\'':
			quote = c
		}
		f.pos++
	}
	return f.data[start:f.pos]
}

// tokenizer produces the linear token sequence from the argument
// vector plus a stack of expanded response-file frames. It is built
// fresh per parse and owns nothing beyond its pooled frame buffers.
type tokenizer struct {
	argv []string
	argi int
	cur  frame

	// frames is the response-file stack; depth equals current nesting
	// depth and drains to zero before next reports exhaustion.
	frames []frame

	// literal disables value-delimiter detection after the escape
	// token. Quoting and response-file expansion are unaffected.
	literal bool

	valueNext  bool
	pendingRaw string

	diag func(Diagnostic)
}

func newTokenizer(argv []string, diag func(Diagnostic)) *tokenizer {
	return &tokenizer{argv: argv, diag: diag}
}

// next returns the next token, or ok=false on overall exhaustion.
func (t *tokenizer) next() (token, bool) {
	if t.valueNext {
		t.valueNext = false
		raw := t.pendingRaw
		t.pendingRaw = ""
		text, bad := stripQuotes(raw)
		return token{text: text, raw: raw, value: true, hadText: raw != "", badQuote: bad}, true
	}

	for {
		f := t.buffer()
		if f == nil {
			return token{}, false
		}
		run := f.scanRun()
		if len(run) > 0 && run[0] == responseSigil {
			path, _ := stripQuotes(string(run[1:]))
			t.push(path)
			continue
		}
		raw := string(run)
		if !t.literal {
			if i, d := delimiterIndex(run); i >= 0 {
				name := raw[:i]
				t.pendingRaw = raw[i+1:]
				t.valueNext = true
				text, bad := stripQuotes(name)
				return token{text: text, raw: name, delim: d, attached: true, badQuote: bad}, true
			}
		}
		text, bad := stripQuotes(raw)
		return token{text: text, raw: raw, badQuote: bad}, true
	}
}

// buffer returns the source to read from: the top response-file frame
// when the stack is non-empty, else the current argument-vector entry.
// Exhausted frames pop here, exhausted entries advance.
func (t *tokenizer) buffer() *frame {
	for {
		if n := len(t.frames); n > 0 {
			f := &t.frames[n-1]
			f.skipSpace()
			if !f.exhausted() {
				return f
			}
			if f.storage != nil {
				pool.PutBuffer(f.storage)
			}
			t.frames = t.frames[:n-1]
			continue
		}
		t.cur.skipSpace()
		if !t.cur.exhausted() {
			return &t.cur
		}
		if t.argi >= len(t.argv) {
			return nil
		}
		t.cur = frame{data: []byte(t.argv[t.argi])}
		t.argi++
	}
}

// push expands a response file onto the frame stack. On read failure a
// diagnostic is recorded and an empty frame is pushed so the pop logic
// stays balanced; token production simply moves to the next source.
func (t *tokenizer) push(path string) {
	data, storage, err := readResponseFile(path)
	if err != nil {
		t.diag(Diagnostic{
			Kind:    DiagResponseFile,
			Message: "failed to read response file '" + path + "'",
		})
		t.frames = append(t.frames, frame{})
		return
	}
	t.frames = append(t.frames, frame{data: data, storage: storage})
}

// literalMode permanently disables value-delimiter detection; entered
// when the matcher consumes the escape token.
func (t *tokenizer) literalMode() { t.literal = true }

// readResponseFile reads a file whole into a pooled buffer. The buffer
// is returned alongside the data so the caller can release it when the
// frame pops.
func readResponseFile(path string) ([]byte, *[]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := int(info.Size())

	storage := pool.GetBuffer(size)
	b := *storage
	if cap(b) < size {
		b = make([]byte, size)
	} else {
		b = b[:size]
	}

	n, err := io.ReadFull(f, b)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		pool.PutBuffer(storage)
		return nil, nil, err
	}
	*storage = b[:n]
	return *storage, storage, nil
}

// delimiterIndex finds the first value delimiter ('=' or ':') in a run
// that is not inside a quoted span. Returns -1 when none.
func delimiterIndex(run []byte) (int, byte) {
	var quote byte
	for i, c := range run {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '=' || c == ':':
			return i, c
		}
	}
	return -1, 0
}

// stripQuotes removes one wrapping pair of matching quotes. A text that
// opens with a quote but is too short to close it, or closes with a
// different byte, is reported malformed; the text is kept as-is so the
// diagnostic can show it.
func stripQuotes(s string) (string, bool) {
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return s, false
	}
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return s, true
	}
	return s[1 : len(s)-1], false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
