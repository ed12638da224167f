package commands

import (
	"io"
	"os"

	"github.com/bytedance/sonic"
	"golang.org/x/term"
)

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeJSON prints v as JSON, indented when a person is watching or pretty is forced
func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	var (
		raw []byte
		err error
	)
	if pretty || isTerminal(w) {
		raw, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	} else {
		raw, err = sonic.ConfigStd.Marshal(v)
	}
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}
