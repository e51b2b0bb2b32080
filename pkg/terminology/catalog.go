package terminology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Concept maps an anatomic x-ray site to its display name and coding-system
// identifiers, used by clients to render pickers and export coded reports.
type Concept struct {
	Display string `yaml:"display" json:"display"`
	SNOMED  string `yaml:"snomed" json:"snomed"`
	ICD10   string `yaml:"icd10" json:"icd10"`
}

type Catalog struct {
	XrayTypes map[string]Concept `yaml:"xray_types" json:"xrayTypes"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.XrayTypes) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat, nil
}

func (c Catalog) Lookup(key string) (Concept, bool) {
	if c.XrayTypes == nil {
		return Concept{}, false
	}
	concept, ok := c.XrayTypes[strings.ToLower(key)]
	if ok {
		return concept, true
	}
	for k, v := range c.XrayTypes {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return Concept{}, false
}

func DefaultCatalog() Catalog {
	return Catalog{XrayTypes: map[string]Concept{
		"shoulder": {
			Display: "Shoulder",
			SNOMED:  "16982005",
			ICD10:   "S42.0",
		},
		"humerus": {
			Display: "Humerus",
			SNOMED:  "85050009",
			ICD10:   "S42.3",
		},
		"elbow": {
			Display: "Elbow",
			SNOMED:  "127949000",
			ICD10:   "S52.0",
		},
		"forearm": {
			Display: "Forearm",
			SNOMED:  "14975008",
			ICD10:   "S52.2",
		},
		"wrist": {
			Display: "Wrist",
			SNOMED:  "8205005",
			ICD10:   "S62.1",
		},
		"hand": {
			Display: "Hand",
			SNOMED:  "85562004",
			ICD10:   "S62.2",
		},
		"spine": {
			Display: "Spine",
			SNOMED:  "421060004",
			ICD10:   "S32.0",
		},
		"hip": {
			Display: "Hip",
			SNOMED:  "29836001",
			ICD10:   "S72.0",
		},
		"femur": {
			Display: "Femur",
			SNOMED:  "71341001",
			ICD10:   "S72.3",
		},
		"knee": {
			Display: "Knee",
			SNOMED:  "72696002",
			ICD10:   "S82.0",
		},
		"tibiofibula": {
			Display: "Tibia and Fibula",
			SNOMED:  "110837003",
			ICD10:   "S82.2",
		},
		"ankle": {
			Display: "Ankle",
			SNOMED:  "344001",
			ICD10:   "S82.5",
		},
		"foot": {
			Display: "Foot",
			SNOMED:  "56459004",
			ICD10:   "S92.3",
		},
	}}
}
