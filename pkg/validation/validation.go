// Package validation checks raw applicant input against per-field rules.
//
// Validation is a value, not an error: a Result either carries a normalized Value or a
// human-readable Message meant to be shown to the applicant as-is. Rules are pure; the only
// ambient input is the clock used for age computations, which is injectable.
package validation

// Kind selects the rule applied by a Validator.
type Kind int

const (
	KindIDNumber Kind = iota
	KindName
	KindDateOfBirth
	KindPhone
	KindEmail
	KindBusinessName
	KindCIPC
	KindSubSector
	KindDescription
	KindJustification
	KindOtherPurpose
	KindStreet
	KindTownship
	KindCity
	KindDistrict
	KindZip
	KindEmployeeCount
	KindYearsInOperation
	KindAmount
	KindYesNo
	KindSelection
	KindMultiSelection
)

var kindNames = map[Kind]string{
	KindIDNumber:         "id_number",
	KindName:             "name",
	KindDateOfBirth:      "date_of_birth",
	KindPhone:            "phone",
	KindEmail:            "email",
	KindBusinessName:     "business_name",
	KindCIPC:             "cipc",
	KindSubSector:        "sub_sector",
	KindDescription:      "description",
	KindJustification:    "justification",
	KindOtherPurpose:     "other_purpose",
	KindStreet:           "street",
	KindTownship:         "township",
	KindCity:             "city",
	KindDistrict:         "district",
	KindZip:              "zip",
	KindEmployeeCount:    "employee_count",
	KindYearsInOperation: "years_in_operation",
	KindAmount:           "amount",
	KindYesNo:            "yes_no",
	KindSelection:        "selection",
	KindMultiSelection:   "multi_selection",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Result is the outcome of a validation.
// When Valid is false, Message explains why and Value is nil.
type Result struct {
	Valid   bool
	Message string
	Value   any
}

// Validator is the contract the conversation engine depends on.
// Implementations must be deterministic for the same input and free of side effects.
type Validator interface {
	Validate(kind Kind, raw string, options []string) Result
}

// IdentityInfo is the normalized value of a national identity number.
type IdentityInfo struct {
	IDNumber    string
	DateOfBirth string // YYYY-MM-DD
	Age         int
}

// BirthInfo is the normalized value of a date of birth.
type BirthInfo struct {
	DateOfBirth string // YYYY-MM-DD
	Age         int
}

// PhoneInfo is the normalized value of a mobile number.
type PhoneInfo struct {
	Formatted string // +27XXXXXXXXX
	WhatsApp  string // 27XXXXXXXXX
}

func ok(v any) Result {
	return Result{Valid: true, Value: v}
}

func reject(msg string) Result {
	return Result{Message: msg}
}
