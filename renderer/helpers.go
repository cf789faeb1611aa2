package renderer

import "io"

// section is a writer that emits its header before the first byte written to
// it. A section nothing is ever written to stays silent, footer included.
type section struct {
	out    io.Writer
	header string
	opened bool
}

func newSection(out io.Writer, header string) *section {
	return &section{out: out, header: header}
}

func (s *section) Write(p []byte) (int, error) {
	if !s.opened {
		s.opened = true
		if _, err := io.WriteString(s.out, s.header); err != nil {
			return 0, err
		}
	}
	return s.out.Write(p)
}

// end writes the footer, only when the section produced output.
func (s *section) end(footer string) {
	if s.opened {
		io.WriteString(s.out, footer)
	}
}
