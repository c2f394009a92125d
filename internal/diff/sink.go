package diff

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // GCS driver
	_ "gocloud.dev/blob/s3blob"   // S3 driver
)

// CompressedSuffix enables zstd compression of the diff stream.
const CompressedSuffix = ".zst"

// Sink is the destination of the reconciliation script. Close flushes every layer.
type Sink struct {
	io.Writer
	location string
	closers  []io.Closer // closed in order, outermost layer first
}

// OpenSink opens a local path or a blob URL (file://, s3://, gs://) for writing.
// An empty location returns a nil sink.
func OpenSink(ctx context.Context, location string) (*Sink, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}

	var (
		w   io.Writer
		s   = &Sink{location: location}
		err error
	)
	if strings.Contains(location, "://") {
		w, err = s.openBlob(ctx, location)
	} else {
		w, err = s.openFile(location)
	}
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(location, CompressedSuffix) {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		s.closers = append([]io.Closer{enc}, s.closers...)
		w = enc
	}
	s.Writer = w
	return s, nil
}

func (s *Sink) openFile(location string) (io.Writer, error) {
	if dir := filepath.Dir(location); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(location)
	if err != nil {
		return nil, fmt.Errorf("create diff file %s: %w", location, err)
	}
	s.closers = append(s.closers, f)
	return f, nil
}

func (s *Sink) openBlob(ctx context.Context, location string) (io.Writer, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse diff location %s: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	bucketURL := *u
	if u.Scheme == "file" {
		// fileblob roots the bucket at a directory; the object key is the file name.
		bucketURL.Path = path.Dir(u.Path)
		key = path.Base(u.Path)
		if err := os.MkdirAll(filepath.FromSlash(bucketURL.Path), 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", bucketURL.Path, err)
		}
	} else {
		bucketURL.Path = ""
	}
	if key == "" || key == "." || key == "/" {
		return nil, fmt.Errorf("diff location %s does not name an object", location)
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL.String())
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL.String(), err)
	}
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: "application/sql"})
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("create writer for %s: %w", key, err)
	}
	s.closers = append(s.closers, w, bucket)
	return w, nil
}

func (s *Sink) Location() string {
	return s.location
}

// Close flushes and closes every layer, reporting the first error.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
