package peek

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Dumper renders one captured referent for the reference-list sigil.
// Entries are labeled positionally, like a synthetic parameter list.
type Dumper interface {
	Dump(w io.Writer, index int, v interface{}) error
}

// NewSpewDumper returns the default dumper, backed by go-spew with map keys
// sorted so dumps are deterministic.
func NewSpewDumper() Dumper {
	return &spewDumper{
		cs: &spew.ConfigState{
			Indent:   "  ",
			SortKeys: true,
		},
	}
}

type spewDumper struct {
	cs *spew.ConfigState
}

func (d *spewDumper) Dump(w io.Writer, index int, v interface{}) error {
	_, err := fmt.Fprintf(w, "%d %s", index, d.cs.Sdump(v))
	return err
}
