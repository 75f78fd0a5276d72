package rules

// #region defaults

// Default returns the built-in rule set. Keyword lists carry both Italian
// and English terms because permits arrive in either language.
func Default() Config {
	return Config{
		Domains: []Domain{
			{
				ID:          "hot_work",
				Specialist:  "hot_work",
				Tier:        TierCritical,
				Threshold:   0.7,
				Description: "Welding, cutting, grinding, open flames and spark-producing work",
				Keywords:    []string{"saldatura", "welding", "taglio", "cutting", "molatura", "grinding", "fiamma", "flame", "scintille", "sparks"},
			},
			{
				ID:          "confined_space",
				Specialist:  "confined_space",
				Tier:        TierCritical,
				Threshold:   0.7,
				Description: "Work inside enclosed or limited-access spaces",
				Keywords:    []string{"serbatoio", "tank", "vessel", "silo", "cisterna", "pozzo", "tunnel", "spazio confinato", "confined space"},
			},
			{
				ID:          "electrical",
				Specialist:  "electrical",
				Tier:        TierImportant,
				Threshold:   0.6,
				Description: "Work on electrical systems, cables, panels or live circuits",
				Keywords:    []string{"elettrico", "electrical", "quadro", "cavo", "cable", "tensione", "voltage", "cabina elettrica"},
			},
			{
				ID:          "height",
				Specialist:  "height",
				Tier:        TierImportant,
				Threshold:   0.6,
				Description: "Work at height, on roofs, ladders, scaffolds or elevated platforms",
				Keywords:    []string{"altezza", "height", "tetto", "roof", "scala", "ladder", "ponteggio", "scaffold", "piattaforma", "quota"},
			},
			{
				ID:          "chemical",
				Specialist:  "chemical",
				Tier:        TierImportant,
				Threshold:   0.6,
				Description: "Work with chemical substances, solvents, acids, gases or in ATEX zones",
				Keywords:    []string{"chimico", "chemical", "solvente", "solvent", "acido", "acid", "gas", "vapore", "vapor", "atex", "esplosivo"},
			},
			{
				ID:          "mechanical",
				Specialist:  "mechanical",
				Tier:        TierGeneral,
				Threshold:   0.5,
				Description: "Work on machinery, plants, mechanical systems or stored energy",
				Keywords:    []string{"meccanico", "mechanical", "macchinario", "machinery", "impianto", "motore", "pompa", "pump", "compressore", "compressor"},
			},
		},

		WorkTypeExpectations: map[string][]string{
			"elettrico":  {"electrical"},
			"electrical": {"electrical"},
			"meccanico":  {"mechanical"},
			"mechanical": {"mechanical"},
			"saldatura":  {"hot_work"},
			"welding":    {"hot_work"},
			"chimico":    {"chemical"},
			"chemical":   {"chemical"},
			"altezza":    {"height"},
			"quota":      {"height"},
			"height":     {"height"},
		},
		InconsistentBar: 0.8,

		KeywordStep:    0.2,
		KeywordCeiling: 0.5,

		Interactions: []Interaction{
			{
				Domains:       [2]string{"hot_work", "chemical"},
				Severity:      "critical",
				Description:   "Hot work near chemical substances, high explosion potential",
				EscalatedRisk: "Ignition of flammable vapors or residues",
				AdditionalControls: []string{
					"Continuous atmospheric monitoring",
					"Enhanced ventilation of the work area",
					"ATEX-certified equipment only",
					"Dedicated fire suppression on site",
				},
			},
			{
				Domains:       [2]string{"hot_work", "confined_space"},
				Severity:      "critical",
				Description:   "Hot work inside a confined space, extreme hazard",
				EscalatedRisk: "Fire, fume accumulation and blocked escape in one event",
				AdditionalControls: []string{
					"Continuous attendant stationed outside the space",
					"Rescue team on standby before entry",
					"Direct communication line with the worker",
					"Pre-arranged emergency evacuation procedure",
				},
			},
			{
				Domains:       [2]string{"chemical", "mechanical"},
				Severity:      "high",
				Description:   "Mechanical work on equipment carrying chemical products",
				EscalatedRisk: "Release of residual product during disassembly",
				AdditionalControls: []string{
					"Drain and flush lines before opening",
					"Verify glove compatibility with both hazards",
				},
			},
		},

		GapIndicators: []GapIndicator{
			{
				Domain:        "mechanical",
				KeywordGroups: [][]string{{"tubo", "pipe", "tubazione", "pressione", "pressure"}},
				Description:   "Piping work without a mechanical hazard assessment",
				Rationale:     "Pressurized systems require mechanical hazard evaluation",
			},
			{
				Domain: "chemical",
				KeywordGroups: [][]string{
					{"olio", "oil", "fluido", "fluid"},
					{"taglio", "cutting"},
				},
				Description: "Cutting fluid-carrying lines without a chemical assessment",
				Rationale:   "Cutting lines that carried fluids creates vapor and exposure risks",
			},
		},

		PPE: PPERules{
			Categories: []PPECategory{
				{
					ID:       "foot",
					Keywords: []string{"scarpe", "calzature", "antinfortunistiche", "shoes", "footwear", "boots", "stivali", "s1", "s2", "s3", "s4", "s5"},
					Scale: []ScaleLevel{
						{Name: "S1", Rank: 1, Markers: []string{"s1"}, Features: []string{"toe protection", "antistatic"}},
						{Name: "S2", Rank: 2, Markers: []string{"s2"}, Features: []string{"toe protection", "antistatic", "water resistant"}},
						{Name: "S3", Rank: 3, Markers: []string{"s3"}, Features: []string{"toe protection", "midsole penetration plate", "water resistant"}},
						{Name: "S4", Rank: 4, Markers: []string{"s4"}, Features: []string{"toe protection", "waterproof boot"}},
						{Name: "S5", Rank: 5, Markers: []string{"s5"}, Features: []string{"toe protection", "midsole penetration plate", "waterproof boot"}},
					},
				},
				{
					ID:       "respiratory",
					Keywords: []string{"respiratore", "maschera", "respirator", "mask", "filtro", "filter", "ffp"},
					Scale: []ScaleLevel{
						{Name: "FFP1", Rank: 1, Markers: []string{"ffp1"}, Features: []string{"low-toxicity dust"}},
						{Name: "FFP2", Rank: 2, Markers: []string{"ffp2"}, Features: []string{"fine dust", "fumes"}},
						{Name: "FFP3", Rank: 3, Markers: []string{"ffp3"}, Features: []string{"toxic particles"}},
						{Name: "full-face", Rank: 4, Markers: []string{"pieno facciale", "full face", "full-face"}, Features: []string{"eye and respiratory seal", "gas cartridges"}},
					},
				},
				{
					ID:       "hand",
					Keywords: []string{"guanti", "gloves", "protezione mani", "hand protection"},
					SubTypes: []SubType{
						{ID: "mechanical", Markers: []string{"meccanici", "mechanical", "abrasion"}},
						{ID: "chemical", Markers: []string{"chimici", "chemical", "nitrile", "solvent"}},
						{ID: "thermal", Markers: []string{"termici", "thermal", "heat", "calore"}},
						{ID: "cut_resistant", Markers: []string{"antitaglio", "cut", "cut-resistant", "kevlar"}},
						{ID: "electrical", Markers: []string{"dielettrici", "dielectric", "insulating", "isolanti"}},
					},
				},
				{
					ID:       "head",
					Keywords: []string{"casco", "elmetto", "helmet", "head protection", "protezione testa"},
				},
				{
					ID:       "eye",
					Keywords: []string{"occhiali", "visiera", "glasses", "goggles", "visor", "protezione occhi", "eye protection"},
				},
				{
					ID:       "hearing",
					Keywords: []string{"tappi", "cuffie", "earplugs", "earmuffs", "protezione udito", "hearing protection"},
				},
				{
					ID:       "body",
					Keywords: []string{"tuta", "giubbotto", "vest", "suit", "coverall", "protezione corpo", "body protection", "apron", "grembiule"},
				},
				{
					ID:       "fall_protection",
					Keywords: []string{"imbracatura", "harness", "anticaduta", "fall protection", "lanyard", "cordino", "lifeline"},
				},
			},
			Conflicts: []PPEConflict{
				{
					Categories: [2]string{"respiratory", "eye"},
					Warning:    "check seal compatibility, a full-face respirator replaces safety glasses",
				},
				{
					Categories: [2]string{"body", "fall_protection"},
					Warning:    "ensure the harness can be worn over the protective clothing",
				},
			},
		},

		Synonyms: [][]string{
			{"loto", "lockout", "tagout", "lockout/tagout", "lock-out", "tag-out", "isolamento energie"},
			{"monitoraggio atmosfera", "atmospheric monitoring", "gas test", "rilevazione gas", "gas detection"},
			{"ventilazione", "ventilation", "aerazione"},
			{"estintore", "fire extinguisher", "antincendio", "fire watch", "sorveglianza antincendio"},
			{"permesso", "permit", "autorizzazione"},
			{"messa a terra", "grounding", "earthing"},
		},
		OverlapWords: 2,

		CriticalPenalty: 0.15,
		GapPenalty:      0.10,
	}
}

// #endregion defaults
