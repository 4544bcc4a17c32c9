package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/salarysys/payroll-backend/internal/core/domain"
)

// DocumentSerializer renders the full dataset as an indented JSON document,
// suitable for archival or downstream machine processing.
type DocumentSerializer struct{}

var _ Serializer = (*DocumentSerializer)(nil)

func (s *DocumentSerializer) ContentType() string {
	return "application/json"
}

func (s *DocumentSerializer) FileExtension() string {
	return "json"
}

func (s *DocumentSerializer) Serialize(dataset *domain.AggregatedDataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dataset); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}
