package stress

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// Save writes the field as CSV with header id,x,y,z.
func Save(path string, f Field) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := Write(file, f); err != nil {
		return err
	}
	return file.Close()
}

// Write encodes the field as CSV.
func Write(w io.Writer, f Field) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "x", "y", "z"}); err != nil {
		return err
	}
	for i, v := range f {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(v.X, 'g', -1, 64),
			strconv.FormatFloat(v.Y, 'g', -1, 64),
			strconv.FormatFloat(v.Z, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a field written by Save.
func Load(path string) (Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read decodes CSV rows of id,x,y,z. Ids must be dense and ascending.
func Read(r io.Reader) (Field, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return Field{}, nil
	}

	out := make(Field, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("stress: row %d has %d columns, want 4", i+1, len(rec))
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("stress: row %d: %w", i+1, err)
		}
		if id != i {
			return nil, fmt.Errorf("stress: row %d has id %d, want %d", i+1, id, i)
		}
		var xyz [3]float64
		for k := 0; k < 3; k++ {
			xyz[k], err = strconv.ParseFloat(rec[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("stress: row %d: %w", i+1, err)
			}
		}
		out = append(out, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	return out, nil
}
