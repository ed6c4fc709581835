package reporting

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"

	"github.com/xkilldash9x/softphys/api/schemas"
)

// csvReporter writes one row per frame. The columns are fixed by the first
// frame; keys a later frame adds are dropped and missing keys are left empty.
type csvReporter struct {
	out     io.WriteCloser
	w       *csv.Writer
	columns []column
}

type column struct {
	group string
	key   string
}

func (c column) header() string { return c.group + "." + c.key }

func newCSVReporter(w io.WriteCloser) *csvReporter {
	return &csvReporter{out: w, w: csv.NewWriter(w)}
}

func (r *csvReporter) Write(snap schemas.FrameSnapshot) error {
	if r.columns == nil {
		r.columns = columnsOf(snap)
		header := []string{"frame", "pitch", "roll", "calibration"}
		for _, c := range r.columns {
			header = append(header, c.header())
		}
		if err := r.w.Write(header); err != nil {
			return err
		}
	}

	row := []string{
		strconv.FormatUint(snap.Frame, 10),
		formatFloat(snap.Pitch),
		formatFloat(snap.Roll),
		snap.Calibration,
	}
	for _, c := range r.columns {
		v, ok := groupOf(snap, c.group)[c.key]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, formatFloat(v))
	}
	return r.w.Write(row)
}

func (r *csvReporter) Close() error {
	r.w.Flush()
	return errors.Join(r.w.Error(), r.out.Close())
}

func columnsOf(snap schemas.FrameSnapshot) []column {
	cols := []column{}
	for _, group := range []string{"settings", "morphs", "colliders"} {
		values := groupOf(snap, group)
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cols = append(cols, column{group: group, key: k})
		}
	}
	return cols
}

func groupOf(snap schemas.FrameSnapshot, group string) map[string]float64 {
	switch group {
	case "settings":
		return snap.Settings
	case "morphs":
		return snap.Morphs
	default:
		return snap.Colliders
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
