// File: internal/mapping/defaults.go
package mapping

// Default returns the built-in pattern table for the transit benefit intake
// survey. It is compiled and ready to use; a --mapping file replaces it
// wholesale rather than merging.
//
// Option indices follow the platform's 1-based rendering order. Patterns
// without a value map are matched against live option labels at fill time.
func Default() *Table {
	t := &Table{Patterns: []Pattern{
		{
			Match:  `acknowledge|i understand|terms of (use|participation)`,
			Kind:   KindSingleChoice,
			Fields: []string{"Acknowledgement", "Terms"},
			Group:  "QID2",
			Values: map[string]string{"I acknowledge": "1", "Yes": "1"},
		},
		{
			Match: `your (full )?name`,
			Kind:  KindMultiText,
			Group: "QID3",
			FieldSets: [][]string{
				{"First Name", "First"},
				{"Middle Name", "Middle", "Middle Initial"},
				{"Last Name", "Last", "Surname"},
			},
		},
		{
			Match:  `fare (category|type)|which .* fare`,
			Kind:   KindSingleChoice,
			Fields: []string{"Fare Category", "Fare Type"},
			Group:  "QID5",
			Values: map[string]string{
				"Adult":  "1",
				"Youth":  "2",
				"Senior": "3",
			},
			OtherIndex: "4",
		},
		{
			Match:  `do you (currently )?have a clipper card`,
			Kind:   KindSingleChoiceYN,
			Fields: []string{"Has Clipper Card", "Clipper Card"},
			Group:  "QID6",
			Values: map[string]string{"Yes": "1", "No": "2"},
		},
		{
			Match:  `card (serial|number)`,
			Kind:   KindFreeText,
			Fields: []string{"Card Serial Number", "Serial Number", "Serial"},
			Group:  "QID7",
		},
		{
			Match:  `(where|how) .* (card issued|get your card)|issuing agency`,
			Kind:   KindSearchableList,
			Fields: []string{"Issuing Agency", "Card Issued By"},
			Group:  "QID8",
		},
		{
			Match:  `before (receiving|you received) .* how (often|frequently)`,
			Kind:   KindSingleChoice,
			Fields: []string{"Trips Before", "Rides Before"},
			Group:  "QID9",
		},
		{
			Match:  `(since|after) (receiving|you received) .* how (often|frequently)`,
			Kind:   KindSingleChoice,
			Fields: []string{"Trips After", "Rides After"},
			Group:  "QID10",
		},
		{
			Match:  `language\(?s\)? (do you )?(speak|spoken)`,
			Kind:   KindMultiChoice,
			Fields: []string{"Languages", "Languages Spoken"},
			Group:  "QID12",
			Values: map[string]string{
				"English":    "1",
				"Spanish":    "2",
				"Chinese":    "3",
				"Vietnamese": "4",
				"Tagalog":    "5",
			},
			OtherIndex: "6",
		},
		{
			Match:  `race|ethnicit`,
			Kind:   KindMultiChoice,
			Fields: []string{"Ethnicity", "Race/Ethnicity", "Race"},
			Group:  "QID13",
			Values: map[string]string{
				"American Indian or Alaska Native":    "1",
				"Asian":                               "2",
				"Black or African American":           "3",
				"Hispanic or Latino":                  "4",
				"Native Hawaiian or Pacific Islander": "5",
				"White":                               "6",
			},
			OtherIndex: "7",
		},
		{
			Match:  `how many people .* household`,
			Kind:   KindSingleChoice,
			Fields: []string{"Household Size", "People in Household"},
			Group:  "QID14",
		},
		{
			Match:  `household income|annual income`,
			Kind:   KindSingleChoice,
			Fields: []string{"Household Income", "Income"},
			Group:  "QID15",
		},
		{
			Match:  `zip( code)?`,
			Kind:   KindFreeText,
			Fields: []string{"ZIP Code", "Zip", "Postal Code"},
			Group:  "QID16",
		},
		{
			Match:  `confirm .* email`,
			Kind:   KindFreeText,
			Fields: []string{"Confirm Email", "Email Address", "Email"},
			Group:  "QID18",
		},
		{
			Match:  `email address`,
			Kind:   KindFreeText,
			Fields: []string{"Email Address", "Email"},
			Group:  "QID17",
		},
		{
			Match:  `(contact|communications?) preferences|would you like to (receive|hear)`,
			Kind:   KindCommunications,
			Fields: []string{"Communications", "Contact Preferences"},
			Group:  "QID19",
			Values: map[string]string{
				"survey":  "1",
				"update":  "2",
				"program": "2",
			},
		},
	}}
	if err := t.Compile(); err != nil {
		// The embedded table is covered by tests; a compile failure here is
		// a programming error.
		panic(err)
	}
	return t
}
