package directory

// Fixed GraphQL query documents, one per entity kind. The query shapes are
// part of the source contract: the full dataset is returned in one response,
// no pagination, no variables.

const biobanksQuery = `
{
    Biobanks {
        id
        name
        acronym
        country {
            name
        }
        description
        url
        withdrawn
        contact {
            email
            first_name
            last_name
        }
        quality {
            quality_standard {
                name
            }
        }
    }
}
`

const networksQuery = `
{
    Networks {
        id
        name
        acronym
        description
        url
        national_node
        juridical_person
        common_network_elements
        contact {
            email
            first_name
            last_name
        }
    }
}
`

const collectionsQuery = `
{
    Collections {
        id
        name
        biobank {
            id
        }
        acronym
        description
        url
        contact {
            email
            first_name
            last_name
        }
        country {
            name
        }
        sex {
            name
        }
        age_low
        age_high
        materials {
            name
        }
        storage_temperatures {
            name
        }
        diagnosis_available {
            code
        }
        number_of_donors
        type {
            name
        }
        access_description
    }
}
`
