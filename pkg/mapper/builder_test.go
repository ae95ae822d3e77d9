package mapper

import (
	"os"
	"reflect"
	"testing"

	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
	"github.com/bbmri-tools/directory-sync/pkg/vocabulary"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func testBuilder() *Builder {
	return NewBuilder(vocabulary.DefaultCatalog(), "bbmri-eric:ID:AT_MUG")
}

func collectionPayload(records ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{"Collections": records},
	}
}

func TestBuildCollectionScenario(t *testing.T) {
	record := map[string]interface{}{
		"id":   "bbmri-eric:ID:CZ_MMCI:collection:LTS",
		"name": "Long Term Storage",
		"biobank": map[string]interface{}{
			"id": "bbmri-eric:ID:CZ_MMCI",
		},
		"sex": []interface{}{
			map[string]interface{}{"name": "NAV"},
			map[string]interface{}{"name": "FEMALE"},
		},
		"age_low":   float64(0),
		"materials": []interface{}{map[string]interface{}{"name": "PLASMA"}},
	}

	collections, report := testBuilder().Collections(collectionPayload(record))
	if len(collections) != 1 {
		t.Fatalf("expected one collection, got %d (skipped: %v)", len(collections), report.Skipped)
	}

	c := collections[0]
	if got := c.Genders; !reflect.DeepEqual(got, []string{"UNKNOWN", "FEMALE"}) {
		t.Fatalf("expected genders [UNKNOWN FEMALE], got %v", got)
	}
	if got := c.MaterialTypes; !reflect.DeepEqual(got, []string{"PLASMA"}) {
		t.Fatalf("expected material types [PLASMA], got %v", got)
	}
	if c.AgeRange.Low == nil || *c.AgeRange.Low != 0 {
		t.Fatalf("expected age low 0, got %v", c.AgeRange.Low)
	}
	if c.AgeRange.High != nil {
		t.Fatalf("expected absent age high, got %v", *c.AgeRange.High)
	}
	if c.ManagingBiobankID != "bbmri-eric:ID:CZ_MMCI" {
		t.Fatalf("unexpected managing biobank %q", c.ManagingBiobankID)
	}
	if c.Country != "unknown" || c.Description != "unknown" {
		t.Fatalf("expected unknown defaults, got country %q description %q", c.Country, c.Description)
	}
	if c.Contact.Name != "unknown" || c.Contact.Email != "unknown" {
		t.Fatalf("expected unknown contact defaults, got %+v", c.Contact)
	}
}

func TestBuildCollectionsPartialFailure(t *testing.T) {
	good := map[string]interface{}{
		"id":      "id-1",
		"biobank": map[string]interface{}{"id": "bb-1"},
	}
	badEnum := map[string]interface{}{
		"id":      "id-2",
		"biobank": map[string]interface{}{"id": "bb-1"},
		"sex":     []interface{}{map[string]interface{}{"name": "MARTIAN"}},
	}
	noIdentifier := map[string]interface{}{
		"biobank": map[string]interface{}{"id": "bb-1"},
	}
	alsoGood := map[string]interface{}{
		"id":      "id-4",
		"biobank": map[string]interface{}{"id": "bb-2"},
	}

	collections, report := testBuilder().Collections(collectionPayload(good, badEnum, noIdentifier, alsoGood))

	if report.Fetched != 4 {
		t.Fatalf("expected 4 fetched, got %d", report.Fetched)
	}
	if len(collections) != 2 || report.Mapped != 2 {
		t.Fatalf("expected 2 mapped, got %d", len(collections))
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("expected 2 skipped, got %v", report.Skipped)
	}
	// order of survivors follows source order
	if collections[0].Identifier != "id-1" || collections[1].Identifier != "id-4" {
		t.Fatalf("expected [id-1 id-4], got [%s %s]", collections[0].Identifier, collections[1].Identifier)
	}
	// the enum failure is reported against the record's own identity
	if report.Skipped[0].Identity != "id-2" {
		t.Fatalf("expected first skip for id-2, got %s", report.Skipped[0].Identity)
	}
	// the record without an id is reported by index
	if report.Skipped[1].Identity != "record[2]" {
		t.Fatalf("expected index identity, got %s", report.Skipped[1].Identity)
	}
}

func TestBuildCollectionsIsPure(t *testing.T) {
	record := map[string]interface{}{
		"id":      "id-1",
		"biobank": map[string]interface{}{"id": "bb-1"},
		"sex":     []interface{}{map[string]interface{}{"name": "MALE"}},
	}

	first, _ := testBuilder().Collections(collectionPayload(record))
	second, _ := testBuilder().Collections(collectionPayload(record))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("mapping is not idempotent: %+v vs %+v", first[0], second[0])
	}
}

func TestBuildBiobanks(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"Biobanks": []interface{}{
				map[string]interface{}{
					"id":      "bbmri-eric:ID:AT_MUG",
					"name":    "MUG Biobank",
					"acronym": "MUG",
					"country": map[string]interface{}{"name": "AT"},
					"contact": map[string]interface{}{
						"first_name": "Jana",
						"last_name":  "Novak",
						"email":      "jana@example.org",
					},
					"quality": []interface{}{
						map[string]interface{}{
							"quality_standard": map[string]interface{}{"name": "ISO 20387"},
						},
						map[string]interface{}{
							"quality_standard": map[string]interface{}{},
						},
					},
				},
				map[string]interface{}{
					"id":      "bbmri-eric:ID:CZ_MMCI",
					"quality": []interface{}{},
				},
			},
		},
	}

	biobanks, report := testBuilder().Biobanks(payload)
	if len(biobanks) != 2 || len(report.Skipped) != 0 {
		t.Fatalf("expected 2 biobanks, got %d (skipped %v)", len(biobanks), report.Skipped)
	}

	first := biobanks[0]
	if !reflect.DeepEqual(first.QualityStandards, []string{"ISO 20387"}) {
		t.Fatalf("expected quality standards [ISO 20387], got %v", first.QualityStandards)
	}
	if first.Contact.Surname != "Novak" {
		t.Fatalf("unexpected contact %+v", first.Contact)
	}

	// an empty quality list yields an empty slice, not a failure
	second := biobanks[1]
	if second.QualityStandards == nil || len(second.QualityStandards) != 0 {
		t.Fatalf("expected empty quality standards, got %v", second.QualityStandards)
	}
	if second.Alias != "unknown" {
		t.Fatalf("expected unknown alias default, got %q", second.Alias)
	}
}

func TestBuildBiobankMissingIdentifierSkipped(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"Biobanks": []interface{}{
				map[string]interface{}{"name": "anonymous"},
			},
		},
	}

	biobanks, report := testBuilder().Biobanks(payload)
	if len(biobanks) != 0 {
		t.Fatalf("expected no biobanks, got %d", len(biobanks))
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Identity != "record[0]" {
		t.Fatalf("expected one indexed skip, got %v", report.Skipped)
	}
}

func TestBuildNetworks(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"Networks": []interface{}{
				map[string]interface{}{
					"id":                      "bbmri-eric:networkID:EU_network",
					"name":                    "EU Network",
					"common_network_elements": "governance,sample access,joint projects",
				},
				map[string]interface{}{
					"id": "bbmri-eric:networkID:quiet",
				},
			},
		},
	}

	networks, report := testBuilder().Networks(payload)
	if len(networks) != 2 || len(report.Skipped) != 0 {
		t.Fatalf("expected 2 networks, got %d (skipped %v)", len(networks), report.Skipped)
	}

	first := networks[0]
	if !reflect.DeepEqual(first.CollaborationTopics, []string{"governance", "sample access", "joint projects"}) {
		t.Fatalf("unexpected topics %v", first.CollaborationTopics)
	}
	if first.ManagingBiobankID != "bbmri-eric:ID:AT_MUG" {
		t.Fatalf("expected configured managing biobank, got %q", first.ManagingBiobankID)
	}
	if len(first.MemberCollectionIDs) != 0 || len(first.MemberBiobankIDs) != 0 {
		t.Fatalf("expected empty member lists, got %+v", first)
	}

	second := networks[1]
	if len(second.CollaborationTopics) != 0 {
		t.Fatalf("expected no topics for absent elements string, got %v", second.CollaborationTopics)
	}
	if second.JuristicPerson != "unknown" {
		t.Fatalf("expected unknown juristic person, got %q", second.JuristicPerson)
	}
}

func TestEmptyPayloadYieldsEmptyBatch(t *testing.T) {
	biobanks, report := testBuilder().Biobanks(map[string]interface{}{})
	if len(biobanks) != 0 || report.Fetched != 0 {
		t.Fatalf("expected empty batch, got %d entities, %d fetched", len(biobanks), report.Fetched)
	}
}
