package miabis

import (
	"errors"
	"fmt"
)

// UnknownValue is the sentinel used for free-text identity fields the
// directory payload left empty.
const UnknownValue = "unknown"

var (
	errEmptyIdentifier      = errors.New("identifier must not be empty")
	errEmptyManagingBiobank = errors.New("managing biobank identifier must not be empty")
	errInvalidAgeRange      = errors.New("age range low exceeds high")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Contact is the (name, surname, email) triple shared by all entity kinds.
// Absent parts are expected to arrive pre-defaulted to UnknownValue.
type Contact struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// AgeRange is an inclusive donor age range; either bound may be absent.
type AgeRange struct {
	Low  *int `json:"low,omitempty"`
	High *int `json:"high,omitempty"`
}

type Biobank struct {
	Identifier       string   `json:"identifier"`
	Name             string   `json:"name"`
	Alias            string   `json:"alias"`
	Country          string   `json:"country"`
	Contact          Contact  `json:"contact"`
	Description      string   `json:"description"`
	QualityStandards []string `json:"quality_standards"`
}

func NewBiobank(identifier, name, alias, country string, contact Contact, description string, qualityStandards []string) (*Biobank, error) {
	if identifier == "" {
		return nil, ValidationError{reason: errEmptyIdentifier}
	}
	return &Biobank{
		Identifier:       identifier,
		Name:             name,
		Alias:            alias,
		Country:          country,
		Contact:          contact,
		Description:      description,
		QualityStandards: copyStrings(qualityStandards),
	}, nil
}

type Network struct {
	Identifier          string   `json:"identifier"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	JuristicPerson      string   `json:"juristic_person"`
	Country             string   `json:"country"`
	Contact             Contact  `json:"contact"`
	CollaborationTopics []string `json:"common_collaboration_topics"`
	MemberCollectionIDs []string `json:"member_collection_ids"`
	MemberBiobankIDs    []string `json:"member_biobank_ids"`
	ManagingBiobankID   string   `json:"managing_biobank_id"`
}

func NewNetwork(identifier, name, description, juristicPerson, country string, contact Contact, collaborationTopics, memberCollectionIDs, memberBiobankIDs []string, managingBiobankID string) (*Network, error) {
	if identifier == "" {
		return nil, ValidationError{reason: errEmptyIdentifier}
	}
	if managingBiobankID == "" {
		return nil, ValidationError{reason: errEmptyManagingBiobank}
	}
	return &Network{
		Identifier:          identifier,
		Name:                name,
		Description:         description,
		JuristicPerson:      juristicPerson,
		Country:             country,
		Contact:             contact,
		CollaborationTopics: copyStrings(collaborationTopics),
		MemberCollectionIDs: copyStrings(memberCollectionIDs),
		MemberBiobankIDs:    copyStrings(memberBiobankIDs),
		ManagingBiobankID:   managingBiobankID,
	}, nil
}

type Collection struct {
	Identifier          string   `json:"identifier"`
	Name                string   `json:"name"`
	ManagingBiobankID   string   `json:"managing_biobank_id"`
	Contact             Contact  `json:"contact"`
	Country             string   `json:"country"`
	Description         string   `json:"description"`
	Genders             []string `json:"genders"`
	MaterialTypes       []string `json:"material_types"`
	StorageTemperatures []string `json:"storage_temperatures"`
	AgeRange            AgeRange `json:"age_range"`
	Diagnoses           []string `json:"diagnoses"`
}

func NewCollection(identifier, name, managingBiobankID string, contact Contact, country, description string, genders, materialTypes, storageTemperatures []string, ageRange AgeRange, diagnoses []string) (*Collection, error) {
	if identifier == "" {
		return nil, ValidationError{reason: errEmptyIdentifier}
	}
	if managingBiobankID == "" {
		return nil, ValidationError{reason: errEmptyManagingBiobank}
	}
	if ageRange.Low != nil && ageRange.High != nil && *ageRange.Low > *ageRange.High {
		return nil, ValidationError{reason: fmt.Errorf("low %d, high %d: %w", *ageRange.Low, *ageRange.High, errInvalidAgeRange)}
	}
	return &Collection{
		Identifier:          identifier,
		Name:                name,
		ManagingBiobankID:   managingBiobankID,
		Contact:             contact,
		Country:             country,
		Description:         description,
		Genders:             copyStrings(genders),
		MaterialTypes:       copyStrings(materialTypes),
		StorageTemperatures: copyStrings(storageTemperatures),
		AgeRange:            ageRange,
		Diagnoses:           copyStrings(diagnoses),
	}, nil
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
