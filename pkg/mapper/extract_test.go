package mapper

import "testing"

func TestStringAtReturnsDefaultAtEveryDepth(t *testing.T) {
	record := map[string]interface{}{
		"country": map[string]interface{}{"name": "Austria"},
		"empty":   nil,
		"scalar":  "leaf",
	}

	if got := stringAt(record, "unknown", "country", "name"); got != "Austria" {
		t.Fatalf("expected Austria, got %q", got)
	}
	if got := stringAt(record, "unknown", "missing"); got != "unknown" {
		t.Fatalf("expected default for missing key, got %q", got)
	}
	if got := stringAt(record, "unknown", "country", "missing"); got != "unknown" {
		t.Fatalf("expected default for missing nested key, got %q", got)
	}
	// walking through a scalar must not panic
	if got := stringAt(record, "unknown", "scalar", "name"); got != "unknown" {
		t.Fatalf("expected default when walking through a scalar, got %q", got)
	}
	if got := stringAt(record, "unknown", "empty"); got != "unknown" {
		t.Fatalf("expected default for explicit null, got %q", got)
	}
}

func TestStringAtReturnsDefaultForNonStringLeaf(t *testing.T) {
	record := map[string]interface{}{
		"description": float64(7),
		"country":     map[string]interface{}{"name": true},
		"present":     "",
	}

	if got := stringAt(record, "unknown", "description"); got != "unknown" {
		t.Fatalf("expected default for numeric leaf, got %q", got)
	}
	if got := stringAt(record, "unknown", "country", "name"); got != "unknown" {
		t.Fatalf("expected default for boolean leaf, got %q", got)
	}
	// a string that is present but empty is still the record's value
	if got := stringAt(record, "unknown", "present"); got != "" {
		t.Fatalf("expected empty string to pass through, got %q", got)
	}
}

func TestListAtAlwaysReturnsIterable(t *testing.T) {
	record := map[string]interface{}{
		"sex": []interface{}{map[string]interface{}{"name": "FEMALE"}},
	}

	if got := listAt(record, "sex"); len(got) != 1 {
		t.Fatalf("expected one element, got %d", len(got))
	}
	got := listAt(record, "materials")
	if got == nil {
		t.Fatal("expected non-nil slice for missing list")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %d elements", len(got))
	}
	if got := listAt(record, "data", "Collections"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice for missing nested list, got %v", got)
	}
}

func TestIntAt(t *testing.T) {
	record := map[string]interface{}{
		"age_low":  float64(0),
		"age_text": "ten",
	}

	low := intAt(record, "age_low")
	if low == nil || *low != 0 {
		t.Fatalf("expected 0, got %v", low)
	}
	if high := intAt(record, "age_high"); high != nil {
		t.Fatalf("expected nil for absent number, got %v", *high)
	}
	if v := intAt(record, "age_text"); v != nil {
		t.Fatalf("expected nil for non-numeric value, got %v", *v)
	}
}
