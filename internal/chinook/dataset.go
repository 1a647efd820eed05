package chinook

import (
	"embed"
	"io"
)

//go:embed dataset/chinook.sql
var datasetFS embed.FS

// SampleDataset opens the embedded sample data script. The script contains
// data statements only; schema creation comes from SchemaStatements.
func SampleDataset() (io.Reader, error) {
	f, err := datasetFS.Open("dataset/chinook.sql")
	if err != nil {
		return nil, err
	}
	return f, nil
}
