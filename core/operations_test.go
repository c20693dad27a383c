package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleRecords() []ModelRecord {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []ModelRecord{
		{Name: "phi3:mini", Size: 2_000, ModifiedAt: now.Add(-48 * time.Hour), Details: ModelDetails{Family: "phi3", Families: []string{"phi3"}}},
		{Name: "llama3:latest", Size: 4_000, ModifiedAt: now, Details: ModelDetails{Family: "llama", Families: []string{"llama"}}},
		{Name: "llava:7b", Size: 3_000, ModifiedAt: now.Add(-24 * time.Hour), Details: ModelDetails{Family: "llama", Families: []string{"llama", "clip"}}},
	}
}

func names(records []ModelRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestFilterRecords(t *testing.T) {
	tests := []struct {
		name   string
		filter RecordFilter
		want   []string
	}{
		{"no filter", RecordFilter{}, []string{"phi3:mini", "llama3:latest", "llava:7b"}},
		{"query on name", RecordFilter{Query: "LLA"}, []string{"llama3:latest", "llava:7b"}},
		{"query on family", RecordFilter{Query: "phi"}, []string{"phi3:mini"}},
		{"family", RecordFilter{Family: []string{"clip"}}, []string{"llava:7b"}},
		{"query and family", RecordFilter{Query: "llava", Family: []string{"LLAMA"}}, []string{"llava:7b"}},
		{"no match", RecordFilter{Query: "mistral"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterRecords(sampleRecords(), tt.filter)))
		})
	}
}

func TestSortRecords(t *testing.T) {
	tests := []struct {
		name string
		by   RecordSort
		want []string
	}{
		{"name asc", RecordSort{Field: "name"}, []string{"llama3:latest", "llava:7b", "phi3:mini"}},
		{"size desc", RecordSort{Field: "size", Order: "desc"}, []string{"llama3:latest", "llava:7b", "phi3:mini"}},
		{"modified asc", RecordSort{Field: "modified", Order: "asc"}, []string{"phi3:mini", "llava:7b", "llama3:latest"}},
		{"family keeps ties stable", RecordSort{Field: "family"}, []string{"llama3:latest", "llava:7b", "phi3:mini"}},
		{"unknown field", RecordSort{Field: "digest"}, []string{"phi3:mini", "llama3:latest", "llava:7b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := sampleRecords()
			SortRecords(records, tt.by)
			assert.Equal(t, tt.want, names(records))
		})
	}
}
