package fhir

import "github.com/bbmri-tools/directory-sync/pkg/miabis"

// Identifier system under which directory identifiers are filed on the
// destination store.
const identifierSystem = "http://www.bbmri-eric.eu/"

// Wire rendering of domain entities as FHIR resources: Organization for
// biobanks and networks, Group for collections. The store owns validation of
// these shapes; this package only has to produce them consistently so that
// create-or-update by identifier stays idempotent.

func biobankResource(b *miabis.Biobank) map[string]interface{} {
	resource := map[string]interface{}{
		"resourceType": "Organization",
		"identifier": []interface{}{
			map[string]interface{}{"system": identifierSystem, "value": b.Identifier},
		},
		"name":    b.Name,
		"alias":   []interface{}{b.Alias},
		"contact": contactEntries(b.Contact),
	}
	if b.Country != "" {
		resource["address"] = []interface{}{
			map[string]interface{}{"country": b.Country},
		}
	}
	extensions := []interface{}{}
	if b.Description != "" {
		extensions = append(extensions, map[string]interface{}{
			"url":         "https://fhir.bbmri.de/StructureDefinition/OrganizationDescription",
			"valueString": b.Description,
		})
	}
	for _, standard := range b.QualityStandards {
		extensions = append(extensions, map[string]interface{}{
			"url":         "https://fhir.bbmri.de/StructureDefinition/QualityManagementStandard",
			"valueString": standard,
		})
	}
	if len(extensions) > 0 {
		resource["extension"] = extensions
	}
	return resource
}

func networkResource(n *miabis.Network, managingOrgFHIRID string) map[string]interface{} {
	resource := map[string]interface{}{
		"resourceType": "Organization",
		"identifier": []interface{}{
			map[string]interface{}{"system": identifierSystem, "value": n.Identifier},
		},
		"name":    n.Name,
		"contact": contactEntries(n.Contact),
		"type": []interface{}{
			map[string]interface{}{"text": "BiobankNetwork"},
		},
	}
	if n.Country != "" {
		resource["address"] = []interface{}{
			map[string]interface{}{"country": n.Country},
		}
	}
	if managingOrgFHIRID != "" {
		resource["partOf"] = map[string]interface{}{
			"reference": "Organization/" + managingOrgFHIRID,
		}
	}
	extensions := []interface{}{}
	if n.Description != "" {
		extensions = append(extensions, map[string]interface{}{
			"url":         "https://fhir.bbmri.de/StructureDefinition/OrganizationDescription",
			"valueString": n.Description,
		})
	}
	if n.JuristicPerson != "" {
		extensions = append(extensions, map[string]interface{}{
			"url":         "https://fhir.bbmri.de/StructureDefinition/JuristicPerson",
			"valueString": n.JuristicPerson,
		})
	}
	for _, topic := range n.CollaborationTopics {
		extensions = append(extensions, map[string]interface{}{
			"url":         "https://fhir.bbmri.de/StructureDefinition/CommonCollaborationTopic",
			"valueString": topic,
		})
	}
	if len(extensions) > 0 {
		resource["extension"] = extensions
	}
	return resource
}

func collectionResource(c *miabis.Collection) map[string]interface{} {
	characteristics := []interface{}{}
	for _, gender := range c.Genders {
		characteristics = append(characteristics, characteristic("Sex", gender))
	}
	for _, material := range c.MaterialTypes {
		characteristics = append(characteristics, characteristic("MaterialType", material))
	}
	for _, temperature := range c.StorageTemperatures {
		characteristics = append(characteristics, characteristic("StorageTemperature", temperature))
	}
	for _, diagnosis := range c.Diagnoses {
		characteristics = append(characteristics, characteristic("Diagnosis", diagnosis))
	}
	if c.AgeRange.Low != nil || c.AgeRange.High != nil {
		ageRange := map[string]interface{}{}
		if c.AgeRange.Low != nil {
			ageRange["low"] = map[string]interface{}{"value": *c.AgeRange.Low, "unit": "years"}
		}
		if c.AgeRange.High != nil {
			ageRange["high"] = map[string]interface{}{"value": *c.AgeRange.High, "unit": "years"}
		}
		characteristics = append(characteristics, map[string]interface{}{
			"code":       map[string]interface{}{"text": "AgeRange"},
			"valueRange": ageRange,
		})
	}

	resource := map[string]interface{}{
		"resourceType": "Group",
		"type":         "person",
		"actual":       false,
		"identifier": []interface{}{
			map[string]interface{}{"system": identifierSystem, "value": c.Identifier},
		},
		"name": c.Name,
		"managingEntity": map[string]interface{}{
			"identifier": map[string]interface{}{"system": identifierSystem, "value": c.ManagingBiobankID},
		},
	}
	if len(characteristics) > 0 {
		resource["characteristic"] = characteristics
	}
	return resource
}

func characteristic(code, value string) map[string]interface{} {
	return map[string]interface{}{
		"code":                 map[string]interface{}{"text": code},
		"valueCodeableConcept": map[string]interface{}{"text": value},
	}
}

func contactEntries(c miabis.Contact) []interface{} {
	return []interface{}{
		map[string]interface{}{
			"name": map[string]interface{}{
				"given":  []interface{}{c.Name},
				"family": c.Surname,
			},
			"telecom": []interface{}{
				map[string]interface{}{"system": "email", "value": c.Email},
			},
		},
	}
}
