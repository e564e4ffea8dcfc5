package ingest

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kregerl/nbt-editor/pkg/doc"
	"github.com/kregerl/nbt-editor/pkg/logutil"
)

var logger = logutil.GetLogger("ingest")

// Result is the outcome of loading one path.
type Result struct {
	Seq  uint64
	Path string
	Doc  *doc.Document
	Err  error
}

// Loader loads files on a background goroutine. Each request is numbered, and
// only the result of the latest request is delivered; results of superseded
// requests are dropped.
type Loader struct {
	codec   Codec
	results chan Result

	mu     sync.Mutex
	latest uint64
}

// NewLoader returns a Loader. A nil codec means DefaultCodec.
func NewLoader(codec Codec) *Loader {
	if codec == nil {
		codec = DefaultCodec
	}
	return &Loader{codec: codec, results: make(chan Result, 1)}
}

// Results returns the channel that results are delivered on. A result may
// be superseded after it is sent, so receivers should check Current.
func (l *Loader) Results() <-chan Result { return l.results }

// Request starts loading path and returns the sequence number of the request.
func (l *Loader) Request(path string) uint64 {
	l.mu.Lock()
	l.latest++
	seq := l.latest
	l.mu.Unlock()
	logger.Debug("load requested", "seq", seq, "path", path)
	go func() {
		d, err := LoadFile(path, l.codec)
		l.deliver(Result{seq, path, d, err})
	}()
	return seq
}

// Current reports whether seq is the latest request.
func (l *Loader) Current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seq == l.latest
}

func (l *Loader) deliver(r Result) {
	if !l.Current(r.Seq) {
		logger.Debug("dropping superseded load", "seq", r.Seq, "path", r.Path)
		return
	}
	// Replace an undelivered older result.
	for {
		select {
		case l.results <- r:
			return
		case old := <-l.results:
			if old.Seq > r.Seq {
				select {
				case l.results <- old:
				default:
				}
				return
			}
		}
	}
}

// LoadAll loads paths concurrently, running at most limit loads at a time,
// and returns one result per path in the same order. A limit <= 0 means no
// limit. Failures are reported in the results and do not stop other loads.
func LoadAll(ctx context.Context, paths []string, limit int, codec Codec) []Result {
	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			d, err := LoadFile(path, codec)
			results[i] = Result{Path: path, Doc: d, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}
