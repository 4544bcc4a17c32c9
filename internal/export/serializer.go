// Package export turns aggregated payroll datasets into concrete file formats.
// Every serializer is a pure function of the dataset: no serializer performs
// aggregation or touches the store.
package export

import (
	"fmt"
	"io"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// Serializer writes one aggregated dataset to an output stream.
type Serializer interface {
	// Serialize renders the dataset and writes it to w.
	Serialize(dataset *domain.AggregatedDataset, w io.Writer) error

	// ContentType returns the MIME type of the rendered output.
	ContentType() string

	// FileExtension returns the file extension without a leading dot.
	FileExtension() string
}

// Format identifies a supported export output format.
type Format string

const (
	FormatWorkbook Format = "workbook"
	FormatCSV      Format = "csv"
	FormatDocument Format = "document"
)

// NewSerializer returns the serializer for the requested format.
func NewSerializer(format Format) (Serializer, error) {
	switch format {
	case FormatWorkbook:
		return &WorkbookSerializer{}, nil
	case FormatCSV:
		return &CSVSerializer{}, nil
	case FormatDocument:
		return &DocumentSerializer{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
