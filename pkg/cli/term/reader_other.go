//go:build !unix

package term

import (
	"errors"
	"os"
)

var errNoReader = errors.New("terminal input is only supported on Unix")

func newReader(*os.File) (Reader, error) { return nil, errNoReader }
