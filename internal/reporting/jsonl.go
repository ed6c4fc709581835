package reporting

import (
	"bufio"
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/softphys/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonlReporter writes one JSON object per frame.
type jsonlReporter struct {
	out io.WriteCloser
	buf *bufio.Writer
	enc *jsoniter.Encoder
}

func newJSONLReporter(w io.WriteCloser) *jsonlReporter {
	buf := bufio.NewWriter(w)
	return &jsonlReporter{out: w, buf: buf, enc: json.NewEncoder(buf)}
}

func (r *jsonlReporter) Write(snap schemas.FrameSnapshot) error {
	return r.enc.Encode(snap)
}

func (r *jsonlReporter) Close() error {
	return errors.Join(r.buf.Flush(), r.out.Close())
}
