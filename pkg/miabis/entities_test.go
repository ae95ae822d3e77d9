package miabis

import "testing"

func TestNewBiobankRequiresIdentifier(t *testing.T) {
	_, err := NewBiobank("", "name", "alias", "AT", Contact{}, "", nil)
	if err == nil {
		t.Fatal("expected error for empty identifier")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewNetworkRequiresManagingBiobank(t *testing.T) {
	_, err := NewNetwork("id", "name", "", "unknown", "AT", Contact{}, nil, nil, nil, "")
	if err == nil {
		t.Fatal("expected error for empty managing biobank")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewCollectionAgeRange(t *testing.T) {
	low, high := 50, 10
	_, err := NewCollection("id", "name", "bb", Contact{}, "AT", "", nil, nil, nil, AgeRange{Low: &low, High: &high}, nil)
	if err == nil {
		t.Fatal("expected error for inverted age range")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// a single open bound is fine
	zero := 0
	c, err := NewCollection("id", "name", "bb", Contact{}, "AT", "", nil, nil, nil, AgeRange{Low: &zero}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.AgeRange.High != nil {
		t.Fatal("expected open upper bound")
	}
}

func TestConstructorsCopySlices(t *testing.T) {
	genders := []string{"FEMALE"}
	c, err := NewCollection("id", "name", "bb", Contact{}, "AT", "", genders, nil, nil, AgeRange{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	genders[0] = "MALE"
	if c.Genders[0] != "FEMALE" {
		t.Fatal("entity shares backing array with caller input")
	}
}
