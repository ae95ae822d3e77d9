package mapper

import (
	"strings"

	"github.com/bbmri-tools/directory-sync/pkg/miabis"
	"github.com/bbmri-tools/directory-sync/pkg/vocabulary"
)

// Builder turns decoded directory payloads into validated domain entities.
// Each pass is a pure function of the payload: one bad record is skipped and
// reported, never aborting the batch.
type Builder struct {
	catalog                  vocabulary.Catalog
	networkManagingBiobankID string
}

func NewBuilder(catalog vocabulary.Catalog, networkManagingBiobankID string) *Builder {
	return &Builder{
		catalog:                  catalog,
		networkManagingBiobankID: networkManagingBiobankID,
	}
}

func (b *Builder) Biobanks(payload map[string]interface{}) ([]*miabis.Biobank, Report) {
	records := listAt(payload, "data", "Biobanks")
	report := Report{Fetched: len(records)}

	biobanks := make([]*miabis.Biobank, 0, len(records))
	for i, raw := range records {
		record := extractMap(raw)

		biobank, err := b.buildBiobank(record)
		if err != nil {
			report.skip("biobank", &RecordError{Identity: identity(record, i), reason: err})
			continue
		}
		biobanks = append(biobanks, biobank)
	}
	report.Mapped = len(biobanks)
	return biobanks, report
}

func (b *Builder) buildBiobank(record map[string]interface{}) (*miabis.Biobank, error) {
	qualityStandards := make([]string, 0)
	for _, raw := range listAt(record, "quality") {
		entry := extractMap(raw)
		if name := stringAt(entry, "", "quality_standard", "name"); name != "" {
			qualityStandards = append(qualityStandards, name)
		}
	}

	return miabis.NewBiobank(
		stringAt(record, "", "id"),
		stringAt(record, "", "name"),
		stringAt(record, miabis.UnknownValue, "acronym"),
		stringAt(record, "", "country", "name"),
		extractContact(record),
		stringAt(record, "", "description"),
		qualityStandards,
	)
}

func (b *Builder) Networks(payload map[string]interface{}) ([]*miabis.Network, Report) {
	records := listAt(payload, "data", "Networks")
	report := Report{Fetched: len(records)}

	networks := make([]*miabis.Network, 0, len(records))
	for i, raw := range records {
		record := extractMap(raw)

		network, err := b.buildNetwork(record)
		if err != nil {
			report.skip("network", &RecordError{Identity: identity(record, i), reason: err})
			continue
		}
		networks = append(networks, network)
	}
	report.Mapped = len(networks)
	return networks, report
}

func (b *Builder) buildNetwork(record map[string]interface{}) (*miabis.Network, error) {
	topics := make([]string, 0)
	if joined := stringAt(record, "", "common_network_elements"); joined != "" {
		topics = strings.Split(joined, ",")
	}

	// The directory payload carries neither membership lists nor a managing
	// biobank reference for networks; the managing biobank falls back to the
	// configured identifier.
	return miabis.NewNetwork(
		stringAt(record, "", "id"),
		stringAt(record, "", "name"),
		stringAt(record, "", "description"),
		stringAt(record, miabis.UnknownValue, "juridical_person"),
		stringAt(record, miabis.UnknownValue, "national_node"),
		extractContact(record),
		topics,
		[]string{},
		[]string{},
		b.networkManagingBiobankID,
	)
}

func (b *Builder) Collections(payload map[string]interface{}) ([]*miabis.Collection, Report) {
	records := listAt(payload, "data", "Collections")
	report := Report{Fetched: len(records)}

	collections := make([]*miabis.Collection, 0, len(records))
	for i, raw := range records {
		record := extractMap(raw)

		collection, err := b.buildCollection(record)
		if err != nil {
			report.skip("collection", &RecordError{Identity: identity(record, i), reason: err})
			continue
		}
		collections = append(collections, collection)
	}
	report.Mapped = len(collections)
	return collections, report
}

func (b *Builder) buildCollection(record map[string]interface{}) (*miabis.Collection, error) {
	genders, err := b.normalizeNames(vocabulary.EnumGender, listAt(record, "sex"))
	if err != nil {
		return nil, err
	}
	materialTypes, err := b.normalizeNames(vocabulary.EnumMaterialType, listAt(record, "materials"))
	if err != nil {
		return nil, err
	}
	storageTemperatures, err := b.normalizeNames(vocabulary.EnumStorageTemperature, listAt(record, "storage_temperatures"))
	if err != nil {
		return nil, err
	}

	diagnoses := make([]string, 0)
	for _, raw := range listAt(record, "diagnosis_available") {
		if code := stringAt(extractMap(raw), "", "code"); code != "" {
			diagnoses = append(diagnoses, code)
		}
	}

	return miabis.NewCollection(
		stringAt(record, "", "id"),
		stringAt(record, "", "name"),
		stringAt(record, "", "biobank", "id"),
		extractContact(record),
		stringAt(record, miabis.UnknownValue, "country", "name"),
		stringAt(record, miabis.UnknownValue, "description"),
		genders,
		materialTypes,
		storageTemperatures,
		miabis.AgeRange{Low: intAt(record, "age_low"), High: intAt(record, "age_high")},
		diagnoses,
	)
}

// normalizeNames runs the "name" field of each list entry through the named
// enumeration, preserving source order. Entries without a name contribute
// nothing; a name with no mapping fails the whole record.
func (b *Builder) normalizeNames(enum string, entries []interface{}) ([]string, error) {
	values := make([]string, 0, len(entries))
	for _, raw := range entries {
		name := stringAt(extractMap(raw), "", "name")
		if name == "" {
			continue
		}
		member, err := b.catalog.Normalize(enum, name)
		if err != nil {
			return nil, err
		}
		values = append(values, member)
	}
	return values, nil
}

func extractContact(record map[string]interface{}) miabis.Contact {
	contact := extractMap(record["contact"])
	return miabis.Contact{
		Name:    stringAt(contact, miabis.UnknownValue, "first_name"),
		Surname: stringAt(contact, miabis.UnknownValue, "last_name"),
		Email:   stringAt(contact, miabis.UnknownValue, "email"),
	}
}
