package directory

import (
	"strings"
	"testing"
)

// The mappers only see fields the query documents actually request; a field
// missing here silently maps to its default on every record.
func TestQueriesRequestMappedFields(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		fields []string
	}{
		{
			name:   "biobanks",
			query:  biobanksQuery,
			fields: []string{"id", "name", "acronym", "country", "description", "contact", "quality", "quality_standard"},
		},
		{
			name:   "networks",
			query:  networksQuery,
			fields: []string{"id", "name", "description", "national_node", "juridical_person", "common_network_elements", "contact"},
		},
		{
			name:   "collections",
			query:  collectionsQuery,
			fields: []string{"id", "name", "biobank", "contact", "country", "sex", "age_low", "age_high", "materials", "storage_temperatures", "diagnosis_available"},
		},
	}

	for _, tc := range cases {
		for _, field := range tc.fields {
			if !strings.Contains(tc.query, field) {
				t.Fatalf("%s query does not request %q", tc.name, field)
			}
		}
	}
}
