package store

import (
	"bytes"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kregerl/nbt-editor/pkg/nbt"
	. "github.com/kregerl/nbt-editor/pkg/store/storedefs"
)

// Bucket names. The recent bucket maps sequence numbers to records; the
// index bucket maps paths to sequence numbers.
const (
	bucketRecent      = "recent"
	bucketRecentIndex = "recent-index"
)

func init() {
	initDB["initialize recent documents table"] = func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketRecent)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRecentIndex))
		return err
	}
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

// A record is the envelope byte, the opening time in Unix nanoseconds, and
// the path.
func marshalRecord(path string, env nbt.Envelope, t time.Time) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(env))
	binary.Write(&buf, binary.BigEndian, t.UnixNano())
	buf.WriteString(path)
	return buf.Bytes()
}

func unmarshalRecord(seq uint64, v []byte) Doc {
	if len(v) < 9 {
		return Doc{Seq: int(seq)}
	}
	return Doc{
		Path:     string(v[9:]),
		Envelope: nbt.Envelope(v[0]),
		Opened:   time.Unix(0, int64(binary.BigEndian.Uint64(v[1:9]))),
		Seq:      int(seq),
	}
}

// AddDoc records that path was opened, moving it to the front of the list
// if it was already there. It returns the new sequence number.
func (s *dbStore) AddDoc(path string, env nbt.Envelope) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRecent))
		idx := tx.Bucket([]byte(bucketRecentIndex))
		if old := idx.Get([]byte(path)); old != nil {
			if err := b.Delete(old); err != nil {
				return err
			}
		}
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		key := marshalSeq(seq)
		if err := b.Put(key, marshalRecord(path, env, time.Now())); err != nil {
			return err
		}
		return idx.Put([]byte(path), key)
	})
	return int(seq), err
}

// DelDoc removes path from the list. Removing a path that is not in the list
// is not an error.
func (s *dbStore) DelDoc(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket([]byte(bucketRecentIndex))
		key := idx.Get([]byte(path))
		if key == nil {
			return nil
		}
		if err := tx.Bucket([]byte(bucketRecent)).Delete(key); err != nil {
			return err
		}
		return idx.Delete([]byte(path))
	})
}

// Doc returns the entry for path.
func (s *dbStore) Doc(path string) (Doc, error) {
	var doc Doc
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(bucketRecentIndex)).Get([]byte(path))
		if key == nil {
			return ErrNoMatchingDoc
		}
		v := tx.Bucket([]byte(bucketRecent)).Get(key)
		if v == nil {
			return ErrNoMatchingDoc
		}
		doc = unmarshalRecord(unmarshalSeq(key), v)
		return nil
	})
	return doc, err
}

// Docs returns up to limit entries, most recently opened first. A limit <= 0
// means no limit.
func (s *dbStore) Docs(limit int) ([]Doc, error) {
	var docs []Doc
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRecent)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(docs) >= limit {
				break
			}
			docs = append(docs, unmarshalRecord(unmarshalSeq(k), v))
		}
		return nil
	})
	return docs, err
}
