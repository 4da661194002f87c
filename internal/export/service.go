package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// Service moves expenses between the tracker and CSV files.
type Service struct {
	tracker *tracker.Service
}

func NewService(svc *tracker.Service) *Service {
	return &Service{tracker: svc}
}

// Export writes the expenses matching filter, in list order.
func (s *Service) Export(w io.Writer, filter tracker.Filter) (int, error) {
	expenses := tracker.FilterExpenses(s.tracker.Snapshot().Expenses, filter)

	if err := WriteCSV(w, expenses); err != nil {
		return 0, err
	}

	return len(expenses), nil
}

// Import reads r and adds every row as a new expense. Ids in the file are
// ignored: imported rows always get fresh ids. Nothing is added if any row
// is invalid.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]tracker.Expense, error) {
	drafts, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	added, err := s.tracker.ImportExpenses(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("importing expenses: %w", err)
	}

	return added, nil
}

// FileName is the suggested name of an export taken at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("budgie-expenses-%s.csv", now.Format("20060102"))
}
