package xhr

import "io"

// progressReader reports the running byte count after every successful read.
type progressReader struct {
	r      io.Reader
	loaded int64
	onRead func(loaded int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.onRead != nil {
			p.onRead(p.loaded)
		}
	}
	return n, err
}
