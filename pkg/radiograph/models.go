package radiograph

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Closed value sets for the clinical enum fields. Anything outside these is
// rejected at the store boundary.
var (
	Sexes           = []string{"male", "female"}
	Pathomechanisms = []string{"fall", "motorcycle_rta", "mva", "sport", "gunshot", "assault", "others"}
	XrayTypes       = []string{
		"shoulder", "humerus", "elbow", "forearm", "wrist", "hand",
		"spine", "hip", "femur", "knee", "tibiofibula", "ankle", "foot",
	}
	XrayPatterns   = []string{"spiral", "transverse", "oblique", "comminuted", "segmental"}
	Sites          = []string{"proximal", "mid-shaft", "distal"}
	InjuryTypes    = []string{"open", "close"}
	InjuryCounts   = []string{"isolated", "multiple"}
	ProcedureTypes = []string{"Operative", "Non-Operative", "Pending"}
)

const maxNotesLength = 500

type ImageRef struct {
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Record is one radiograph/injury encounter. Field names on the wire stay
// camelCase because the mobile client predates this service.
type Record struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `json:"ownerId" gorm:"type:uuid;index;not null"`

	// Clinical data
	PatientName    string `json:"patientName"`
	Age            int    `json:"age"`
	Sex            string `json:"sex"`
	Pathomechanism string `json:"pathomechanism"`
	XrayType       string `json:"xrayType"`
	XrayPattern    string `json:"xrayPattern"`
	Site           string `json:"site,omitempty"`
	InjuryType     string `json:"injuryType"`
	InjuryCount    string `json:"injuryCount"`
	Notes          string `json:"notes,omitempty"`

	// Surgical data (optional; which sub-group applies follows procedureType
	// by convention, not enforcement)
	PatientRef    string `json:"patientId,omitempty" gorm:"column:patient_ref"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	ProcedureType string `json:"procedureType,omitempty"`

	AnesthesiaType            string                      `json:"anesthesiaType,omitempty"`
	TourniquetUse             string                      `json:"tourniquetUse,omitempty"`
	AntibioticUse             string                      `json:"antibioticUse,omitempty"`
	PreopComorbidities        datatypes.JSONSlice[string] `json:"preopComorbidities,omitempty"`
	EstimatedBloodLoss        string                      `json:"estimatedBloodLoss,omitempty"`
	IntraopBloodTransfusion   string                      `json:"intraopBloodTransfusion,omitempty"`
	DurationOfSurgery         string                      `json:"durationOfSurgery,omitempty"`
	ComplicationIntraop       string                      `json:"complicationIntraop,omitempty"`
	DurationOfHospitalStay    string                      `json:"durationOfHospitalStay,omitempty"`
	DischargeAmbulatoryStatus string                      `json:"dischargeAmbulatoryStatus,omitempty"`

	NonOperativeType string `json:"nonOperativeType,omitempty"`
	CastType         string `json:"castType,omitempty"`
	BraceType        string `json:"braceType,omitempty"`
	AnalgesicGrade   string `json:"analgesicGrade,omitempty"`

	PendingReason    string `json:"pendingReason,omitempty"`
	PlannedProcedure string `json:"plannedProcedure,omitempty"`

	// Images and follow-up linkage. FollowUps is derived from
	// original_record_id at read time and never persisted.
	Images           datatypes.JSONSlice[ImageRef] `json:"images"`
	IsFollowUp       bool                          `json:"isFollowUp" gorm:"index"`
	OriginalRecordID *uuid.UUID                    `json:"originalRecordId,omitempty" gorm:"type:uuid;index"`
	FollowUps        []Record                      `json:"followUps,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Record) TableName() string {
	return "radiographs"
}

// RecordInput is the creation payload. It deliberately has no id, owner,
// isFollowUp or timestamp fields: those are assigned server-side.
// OriginalRecordID is only honoured by the follow-up creation path.
type RecordInput struct {
	PatientName    string `json:"patientName"`
	Age            *int   `json:"age"`
	Sex            string `json:"sex"`
	Pathomechanism string `json:"pathomechanism"`
	XrayType       string `json:"xrayType"`
	XrayPattern    string `json:"xrayPattern"`
	Site           string `json:"site,omitempty"`
	InjuryType     string `json:"injuryType"`
	InjuryCount    string `json:"injuryCount"`
	Notes          string `json:"notes,omitempty"`

	PatientRef    string `json:"patientId,omitempty"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	ProcedureType string `json:"procedureType,omitempty"`

	AnesthesiaType            string   `json:"anesthesiaType,omitempty"`
	TourniquetUse             string   `json:"tourniquetUse,omitempty"`
	AntibioticUse             string   `json:"antibioticUse,omitempty"`
	PreopComorbidities        []string `json:"preopComorbidities,omitempty"`
	EstimatedBloodLoss        string   `json:"estimatedBloodLoss,omitempty"`
	IntraopBloodTransfusion   string   `json:"intraopBloodTransfusion,omitempty"`
	DurationOfSurgery         string   `json:"durationOfSurgery,omitempty"`
	ComplicationIntraop       string   `json:"complicationIntraop,omitempty"`
	DurationOfHospitalStay    string   `json:"durationOfHospitalStay,omitempty"`
	DischargeAmbulatoryStatus string   `json:"dischargeAmbulatoryStatus,omitempty"`

	NonOperativeType string `json:"nonOperativeType,omitempty"`
	CastType         string `json:"castType,omitempty"`
	BraceType        string `json:"braceType,omitempty"`
	AnalgesicGrade   string `json:"analgesicGrade,omitempty"`

	PendingReason    string `json:"pendingReason,omitempty"`
	PlannedProcedure string `json:"plannedProcedure,omitempty"`

	OriginalRecordID string `json:"originalRecordId,omitempty"`
}
