package diagfmt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"eipw/internal/diag"
)

// Sink is a Reporter whose output may be buffered until Close.
type Sink interface {
	diag.Reporter
	Close() error
}

// NewSink builds the Sink for format writing to w.
func NewSink(format Format, w io.Writer, pretty PrettyOpts) (Sink, error) {
	switch format {
	case FormatText:
		return NewText(w, pretty), nil
	case FormatShort:
		return NewShort(w, pretty), nil
	case FormatJSON:
		return NewJSON(w, JSONOpts{Indent: "  ", Formatted: true, Pretty: PrettyOpts{PathMode: pretty.PathMode, BaseDir: pretty.BaseDir}}), nil
	case FormatMsgpack:
		return NewMsgpack(w), nil
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

// Text writes each message rendered by Pretty on its own lines.
type Text struct {
	mu   sync.Mutex
	w    io.Writer
	opts PrettyOpts
}

func NewText(w io.Writer, opts PrettyOpts) *Text {
	return &Text{w: w, opts: opts}
}

func (t *Text) Report(msg diag.Message) error {
	out := Pretty(msg, t.opts)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintln(t.w, out); err != nil {
		return diag.Wrap(err)
	}
	return nil
}

func (t *Text) Close() error { return nil }

// Short writes one line per message: `origin:line: level[id]: title`.
type Short struct {
	mu   sync.Mutex
	w    io.Writer
	opts PrettyOpts
}

func NewShort(w io.Writer, opts PrettyOpts) *Short {
	return &Short{w: w, opts: opts}
}

func (s *Short) Report(msg diag.Message) error {
	line := ShortLine(msg, s.opts)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return diag.Wrap(err)
	}
	return nil
}

func (s *Short) Close() error { return nil }

// ShortLine formats msg on a single line, locating it by its first snippet.
func ShortLine(msg diag.Message, opts PrettyOpts) string {
	head := msg.Level.String()
	if msg.ID != "" {
		head = fmt.Sprintf("%s[%s]", head, msg.ID)
	}
	if len(msg.Snippets) == 0 {
		return fmt.Sprintf("%s: %s", head, msg.Title)
	}
	s := msg.Snippets[0]
	l := layoutSnippet(s)
	line := l.snippet.LineStart
	if n, _, ok := l.location(); ok {
		line = n
	}
	origin := displayPath(s.Origin, opts)
	if origin == "" {
		return fmt.Sprintf("%d: %s: %s", line, head, msg.Title)
	}
	return fmt.Sprintf("%s:%d: %s: %s", origin, line, head, msg.Title)
}

// MessageJSON is a Message plus its plain-text rendering.
type MessageJSON struct {
	diag.Message
	Formatted string `json:"formatted,omitempty"`
}

// JSON collects messages and writes them as one array on Close.
type JSON struct {
	mu    sync.Mutex
	w     io.Writer
	opts  JSONOpts
	items []MessageJSON
}

func NewJSON(w io.Writer, opts JSONOpts) *JSON {
	opts.Pretty.Color = false
	return &JSON{w: w, opts: opts, items: []MessageJSON{}}
}

func (j *JSON) Report(msg diag.Message) error {
	item := MessageJSON{Message: msg.Clone()}
	if j.opts.Formatted {
		item.Formatted = Pretty(msg, j.opts.Pretty)
	}
	j.mu.Lock()
	j.items = append(j.items, item)
	j.mu.Unlock()
	return nil
}

// Items returns the messages collected so far.
func (j *JSON) Items() []MessageJSON {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]MessageJSON(nil), j.items...)
}

func (j *JSON) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", j.opts.Indent)
	if err := enc.Encode(j.items); err != nil {
		return fmt.Errorf("write json diagnostics: %w", err)
	}
	return nil
}

// Msgpack streams each message as one msgpack value.
type Msgpack struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
}

func NewMsgpack(w io.Writer) *Msgpack {
	return &Msgpack{enc: msgpack.NewEncoder(w)}
}

func (m *Msgpack) Report(msg diag.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enc.Encode(msg); err != nil {
		return diag.Wrap(fmt.Errorf("encode msgpack diagnostic: %w", err))
	}
	return nil
}

func (m *Msgpack) Close() error { return nil }

// DecodeMsgpack reads every message from a stream written by Msgpack.
func DecodeMsgpack(r io.Reader) ([]diag.Message, error) {
	dec := msgpack.NewDecoder(r)
	var out []diag.Message
	for {
		var msg diag.Message
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("decode msgpack diagnostic: %w", err)
		}
		out = append(out, msg)
	}
}
