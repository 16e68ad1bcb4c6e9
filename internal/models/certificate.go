package models

import "time"

// CertificateType distinguishes the certificate registers.
type CertificateType string

const (
	CertificateTypeBirth    CertificateType = "birth"
	CertificateTypeDeath    CertificateType = "death"
	CertificateTypeMarriage CertificateType = "marriage"
	CertificateTypeLeaving  CertificateType = "leaving"
)

// BirthCertificate holds a birth registration application. Fields ending
// in Mr carry the Marathi rendering used on the printed certificate.
// Dates are stored as the applicant entered them; only presence is checked.
type BirthCertificate struct {
	ID             string       `db:"id" json:"id"`
	TrackingNumber string       `db:"tracking_number" json:"tracking_number"`
	ChildName      string       `db:"child_name" json:"child_name"`
	ChildNameMr    string       `db:"child_name_mr" json:"child_name_mr"`
	Gender         string       `db:"gender" json:"gender"`
	DateOfBirth    string       `db:"date_of_birth" json:"date_of_birth"`
	PlaceOfBirth   string       `db:"place_of_birth" json:"place_of_birth"`
	PlaceOfBirthMr string       `db:"place_of_birth_mr" json:"place_of_birth_mr"`
	FatherName     string       `db:"father_name" json:"father_name"`
	FatherNameMr   string       `db:"father_name_mr" json:"father_name_mr"`
	MotherName     string       `db:"mother_name" json:"mother_name"`
	MotherNameMr   string       `db:"mother_name_mr" json:"mother_name_mr"`
	Address        string       `db:"address" json:"address"`
	Contact        string       `db:"contact" json:"contact"`
	AadhaarNumber  string       `db:"aadhaar_number" json:"aadhaar_number"`
	Status         RecordStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// DeathCertificate holds a death registration application.
type DeathCertificate struct {
	ID             string       `db:"id" json:"id"`
	TrackingNumber string       `db:"tracking_number" json:"tracking_number"`
	DeceasedName   string       `db:"deceased_name" json:"deceased_name"`
	DeceasedNameMr string       `db:"deceased_name_mr" json:"deceased_name_mr"`
	Gender         string       `db:"gender" json:"gender"`
	DateOfDeath    string       `db:"date_of_death" json:"date_of_death"`
	PlaceOfDeath   string       `db:"place_of_death" json:"place_of_death"`
	PlaceOfDeathMr string       `db:"place_of_death_mr" json:"place_of_death_mr"`
	CauseOfDeath   string       `db:"cause_of_death" json:"cause_of_death"`
	ApplicantName  string       `db:"applicant_name" json:"applicant_name"`
	Relation       string       `db:"relation" json:"relation"`
	Address        string       `db:"address" json:"address"`
	Contact        string       `db:"contact" json:"contact"`
	AadhaarNumber  string       `db:"aadhaar_number" json:"aadhaar_number"`
	Status         RecordStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// MarriageCertificate holds a marriage registration application.
type MarriageCertificate struct {
	ID              string       `db:"id" json:"id"`
	TrackingNumber  string       `db:"tracking_number" json:"tracking_number"`
	GroomName       string       `db:"groom_name" json:"groom_name"`
	GroomNameMr     string       `db:"groom_name_mr" json:"groom_name_mr"`
	BrideName       string       `db:"bride_name" json:"bride_name"`
	BrideNameMr     string       `db:"bride_name_mr" json:"bride_name_mr"`
	DateOfMarriage  string       `db:"date_of_marriage" json:"date_of_marriage"`
	PlaceOfMarriage string       `db:"place_of_marriage" json:"place_of_marriage"`
	WitnessName     string       `db:"witness_name" json:"witness_name"`
	Address         string       `db:"address" json:"address"`
	Contact         string       `db:"contact" json:"contact"`
	Status          RecordStatus `db:"status" json:"status"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// LeavingCertificate holds a village leaving certificate application.
// Marathi fields may be empty at creation; the print path fills them
// lazily through transliteration.
type LeavingCertificate struct {
	ID             string       `db:"id" json:"id"`
	TrackingNumber string       `db:"tracking_number" json:"tracking_number"`
	ApplicantName  string       `db:"applicant_name" json:"applicant_name"`
	ApplicantNameMr string      `db:"applicant_name_mr" json:"applicant_name_mr"`
	FatherName     string       `db:"father_name" json:"father_name"`
	FatherNameMr   string       `db:"father_name_mr" json:"father_name_mr"`
	DateOfBirth    string       `db:"date_of_birth" json:"date_of_birth"`
	Village        string       `db:"village" json:"village"`
	VillageMr      string       `db:"village_mr" json:"village_mr"`
	Reason         string       `db:"reason" json:"reason"`
	ReasonMr       string       `db:"reason_mr" json:"reason_mr"`
	Address        string       `db:"address" json:"address"`
	Contact        string       `db:"contact" json:"contact"`
	AadhaarNumber  string       `db:"aadhaar_number" json:"aadhaar_number"`
	Status         RecordStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// CertificateFilter captures list filters shared by the registers.
type CertificateFilter struct {
	Status   *RecordStatus
	Search   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
