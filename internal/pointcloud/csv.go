package pointcloud

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wegman-software/voxcity-go/internal/category"
)

// ReadCSV loads a cloud from a CSV file with columns x,y,z and an optional
// fourth label column. A non-numeric first row is treated as a header. Rows
// without a label default to terrain.
func ReadCSV(path string) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("csv: empty file")
	}

	start := 0
	if _, err := strconv.ParseFloat(strings.TrimSpace(recs[0][0]), 64); err != nil {
		start = 1 // header row
	}

	cloud := New(len(recs) - start)
	for _, row := range recs[start:] {
		if len(row) < 3 {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		z, err3 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}

		label := category.Terrain
		if len(row) >= 4 {
			if l, err := strconv.ParseUint(strings.TrimSpace(row[3]), 10, 8); err == nil {
				label = category.Category(l)
			}
		}
		cloud.Append(r3.Vec{X: x, Y: y, Z: z}, label)
	}

	if cloud.Len() == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}
	return cloud, nil
}
