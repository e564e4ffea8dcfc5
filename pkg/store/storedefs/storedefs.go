// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// do not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"

	"github.com/kregerl/nbt-editor/pkg/nbt"
)

// ErrNoMatchingDoc is returned when a document is not in the store.
var ErrNoMatchingDoc = errors.New("no matching document")

// Store is an interface satisfied by the storage service.
type Store interface {
	AddDoc(path string, env nbt.Envelope) (int, error)
	DelDoc(path string) error
	Doc(path string) (Doc, error)
	Docs(limit int) ([]Doc, error)
}

// Doc is an entry in the recent documents list.
type Doc struct {
	Path     string
	Envelope nbt.Envelope
	Opened   time.Time
	Seq      int
}
