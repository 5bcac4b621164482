package sheets

import (
	"context"
	"fmt"
	"sync"
)

type fakeRepository struct {
	mu      sync.Mutex
	ranges  map[string][][]interface{}
	fail    map[string]error
	reads   []string
	written map[string][][]interface{}
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		ranges:  map[string][][]interface{}{},
		fail:    map[string]error{},
		written: map[string][][]interface{}{},
	}
}

func (f *fakeRepository) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[sheetRange] = append(f.written[sheetRange], values)
	return nil
}

func (f *fakeRepository) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, sheetRange)
	if err := f.fail[sheetRange]; err != nil {
		return nil, err
	}
	if rows, ok := f.ranges[sheetRange]; ok {
		return rows, nil
	}
	return nil, fmt.Errorf("range %s not found", sheetRange)
}

// withEmptyTabs registers every tab with only its header row.
func (f *fakeRepository) withEmptyTabs() *fakeRepository {
	for _, r := range []string{
		FlocksRange, ProductionRange, FeedPurchasesRange, FeedConsumptionRange, OutbreaksRange,
		VaccinesRange, StressRange, WeatherRange, ExpensesRange, IncomeRange, PestsRange, ZonesRange,
		SettingsRange,
	} {
		f.ranges[r] = [][]interface{}{{"header"}}
	}
	return f
}

func row(cells ...interface{}) []interface{} { return cells }
