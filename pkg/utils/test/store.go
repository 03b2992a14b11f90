package testutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/shelf/pkg/vector"
)

// MockStore is a test vector store. It records upserted records per
// namespace and returns canned query results and stats.
type MockStore struct {
	// Records holds upserted records keyed by namespace.
	Records map[string][]vector.Record

	// Results is returned from Query (truncated to topK).
	Results []vector.Match

	// IndexStats is returned from Stats. Defaults to a non-empty index
	// so searches don't short-circuit unless a test asks for it.
	IndexStats vector.Stats

	// Fail flags force the corresponding call to error.
	FailUpsert bool
	FailQuery  bool
	FailStats  bool

	// Call counters.
	UpsertCalls int
	QueryCalls  int
	StatsCalls  int
	FetchCalls  int
}

func NewMockStore() *MockStore {
	return &MockStore{
		Records:    make(map[string][]vector.Record),
		IndexStats: vector.Stats{TotalVectorCount: 1},
	}
}

func (m *MockStore) Upsert(_ context.Context, namespace string, records []vector.Record) error {
	m.UpsertCalls++

	if m.FailUpsert {
		return fmt.Errorf("mock upsert failure")
	}

	m.Records[namespace] = append(m.Records[namespace], records...)
	return nil
}

func (m *MockStore) Query(_ context.Context, _ string, _ []float32, topK int, _ bool) ([]vector.Match, error) {
	m.QueryCalls++

	if m.FailQuery {
		return nil, fmt.Errorf("mock query failure")
	}

	if len(m.Results) < topK {
		return m.Results, nil
	}
	return m.Results[:topK], nil
}

func (m *MockStore) Fetch(_ context.Context, namespace string, ids []string) ([]vector.Record, error) {
	m.FetchCalls++

	var records []vector.Record
	for _, id := range ids {
		for _, rec := range m.Records[namespace] {
			if rec.ID == id {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

func (m *MockStore) Stats(_ context.Context) (*vector.Stats, error) {
	m.StatsCalls++

	if m.FailStats {
		return nil, fmt.Errorf("mock stats failure")
	}

	stats := m.IndexStats
	return &stats, nil
}

func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements vector.Store
var _ vector.Store = (*MockStore)(nil)
