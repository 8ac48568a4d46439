package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MinAge = 16
	MaxAge = 120

	// idCenturyPivot splits two-digit birth years between the 2000s and 1900s.
	idCenturyPivot = 22

	MinFundingAmount = 1000
	MaxFundingAmount = 10_000_000
)

// EmailProviders are the consumer mail domains accepted besides South African domains.
var EmailProviders = []string{"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "icloud.com"}

// CIPCNotProvided is stored when the applicant skips the registration number.
const CIPCNotProvided = "Not Provided"

var (
	nameRe = regexp.MustCompile(`^[\p{L}\s'\-]+$`)
	cipcRe = regexp.MustCompile(`^[A-Z]{2}\d{4}/\d{6}/\d{2}$`)
	zipRe  = regexp.MustCompile(`^\d{4}$`)

	// amountRe admits plain decimals only; ParseFloat alone would also take "NaN", "Inf" and "1e6".
	amountRe = regexp.MustCompile(`^\d+(\.\d+)?$`)

	dobLayouts = []string{"2/1/2006", "2-1-2006", "2006-01-02"}
)

// Rules is the default Validator.
type Rules struct {
	// Now is the clock used for age checks. Defaults to time.Now.
	Now func() time.Time

	validate *validator.Validate
	printer  *message.Printer
}

// Option configures Rules.
type Option func(*Rules)

// WithClock injects the clock used for age checks.
func WithClock(now func() time.Time) Option {
	return func(r *Rules) {
		r.Now = now
	}
}

// NewRules returns the default rule set.
func NewRules(opts ...Option) *Rules {
	r := &Rules{
		Now:      time.Now,
		validate: validator.New(),
		printer:  message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate implements Validator.
func (r *Rules) Validate(kind Kind, raw string, options []string) Result {
	switch kind {
	case KindIDNumber:
		return r.idNumber(raw)
	case KindName:
		return name(raw)
	case KindDateOfBirth:
		return r.dateOfBirth(raw)
	case KindPhone:
		return phone(raw)
	case KindEmail:
		return r.email(raw)
	case KindBusinessName:
		return text(raw, "Business name", 2, 200)
	case KindCIPC:
		return cipc(raw)
	case KindSubSector:
		return text(raw, "Sub-sector", 3, 200)
	case KindDescription:
		return text(raw, "Business description", 20, 500)
	case KindJustification:
		return text(raw, "Funding justification", 50, 1000)
	case KindOtherPurpose:
		return text(raw, "Purpose details", 5, 500)
	case KindStreet:
		return addressField(raw, "Street address")
	case KindTownship:
		return addressField(raw, "Township")
	case KindCity:
		return addressField(raw, "City")
	case KindDistrict:
		return addressField(raw, "District")
	case KindZip:
		return zip(raw)
	case KindEmployeeCount:
		return number(raw, 0, 1000)
	case KindYearsInOperation:
		return number(raw, 0, 50)
	case KindAmount:
		return r.amount(raw)
	case KindYesNo:
		return yesNo(raw, options)
	case KindSelection:
		return Select(raw, options)
	case KindMultiSelection:
		return SelectMany(raw, options)
	}
	return reject(fmt.Sprintf("No rule for %s", kind))
}

func (r *Rules) idNumber(raw string) Result {
	id := digitsOnly(raw)
	if id == "" {
		return reject("ID number is required")
	}
	if len(id) != 13 {
		return reject("ID number must be 13 digits")
	}
	if !luhn(id) {
		return reject("Invalid ID number format")
	}

	yy, _ := strconv.Atoi(id[0:2])
	mm, _ := strconv.Atoi(id[2:4])
	dd, _ := strconv.Atoi(id[4:6])
	year := 1900 + yy
	if yy < idCenturyPivot {
		year = 2000 + yy
	}
	dob, valid := calendarDate(year, mm, dd)
	if !valid {
		return reject("Invalid date in ID number")
	}

	now := r.Now()
	if dob.After(now) {
		return reject("Date of birth cannot be in the future")
	}
	age := yearsBetween(dob, now)
	if age < MinAge {
		return reject(fmt.Sprintf("Applicant must be at least %d years old", MinAge))
	}
	if age > MaxAge {
		return reject("Invalid date of birth")
	}
	return ok(IdentityInfo{IDNumber: id, DateOfBirth: dob.Format(time.DateOnly), Age: age})
}

func (r *Rules) dateOfBirth(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return reject("Date of birth is required")
	}
	var dob time.Time
	parsed := false
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			dob, parsed = t, true
			break
		}
	}
	if !parsed {
		return reject("Please enter date in format DD/MM/YYYY (e.g., 15/01/1990)")
	}

	now := r.Now()
	if dob.After(now) {
		return reject("Date of birth cannot be in the future")
	}
	age := yearsBetween(dob, now)
	if age < MinAge {
		return reject(fmt.Sprintf("You must be at least %d years old to apply", MinAge))
	}
	if age > MaxAge {
		return reject("Please enter a valid date of birth")
	}
	return ok(BirthInfo{DateOfBirth: dob.Format(time.DateOnly), Age: age})
}

func (r *Rules) email(raw string) Result {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if addr == "" {
		return reject("Email is required")
	}
	if err := r.validate.Var(addr, "email"); err != nil {
		return reject("Please enter a valid email address")
	}
	domain := addr[strings.LastIndex(addr, "@")+1:]
	for _, p := range EmailProviders {
		if domain == p {
			return ok(addr)
		}
	}
	if strings.HasSuffix(domain, ".co.za") || strings.Contains(domain, ".ac.za") {
		return ok(addr)
	}
	return reject("Please use a valid email provider or South African domain")
}

func (r *Rules) amount(raw string) Result {
	clean := strings.NewReplacer("R", "", "r", "", "$", "", ",", "", " ", "").Replace(raw)
	if clean == "" {
		return reject("Funding amount is required")
	}
	if !amountRe.MatchString(clean) {
		return reject("Please enter a valid amount (numbers only)")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return reject("Please enter a valid amount (numbers only)")
	}
	if v < MinFundingAmount {
		return reject(r.printer.Sprintf("Funding amount must be at least R%d", MinFundingAmount))
	}
	if v > MaxFundingAmount {
		return reject(r.printer.Sprintf("Funding amount must be less than R%d", MaxFundingAmount))
	}
	return ok(v)
}

func name(raw string) Result {
	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) < 2 {
		return reject("Name is required and must be at least 2 characters")
	}
	if utf8.RuneCountInString(raw) > 100 {
		return reject("Name is too long (maximum 100 characters)")
	}
	if !nameRe.MatchString(raw) {
		return reject("Name can only contain letters, spaces, hyphens, and apostrophes")
	}
	return ok(raw)
}

func phone(raw string) Result {
	digits := digitsOnly(raw)
	if digits == "" {
		return reject("Phone number is required")
	}
	var n string
	switch {
	case strings.HasPrefix(digits, "0"):
		n = "27" + digits[1:]
	case strings.HasPrefix(digits, "27"):
		n = digits
	default:
		return reject("Please enter a valid South African phone number")
	}
	if len(n) != 11 {
		return reject("Phone number must be 10 digits (including area code)")
	}
	if !strings.ContainsRune("678", rune(n[2])) {
		return reject("Please enter a valid mobile number")
	}
	return ok(PhoneInfo{Formatted: "+" + n, WhatsApp: n})
}

func yesNo(raw string, options []string) Result {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "yeah", "yep":
		return ok("YES")
	case "n", "no", "nope":
		return ok("NO")
	}
	if len(options) == 0 {
		options = []string{"YES", "NO"}
	}
	return Select(raw, options)
}

func cipc(raw string) Result {
	clean := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if clean == "" || clean == "SKIP" {
		return ok(CIPCNotProvided)
	}
	if !cipcRe.MatchString(clean) {
		return reject("Please enter CIPC in format: CK2012/123456/07 or type SKIP")
	}
	return ok(clean)
}

func text(raw, field string, min, max int) Result {
	raw = strings.TrimSpace(raw)
	n := utf8.RuneCountInString(raw)
	if n == 0 {
		return reject(field + " is required")
	}
	if n < min {
		return reject(fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	if n > max {
		return reject(fmt.Sprintf("%s is too long (maximum %d characters)", field, max))
	}
	return ok(raw)
}

func addressField(raw, field string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return reject(field + " is required")
	}
	if utf8.RuneCountInString(raw) > 200 {
		return reject(field + " is too long (maximum 200 characters)")
	}
	return ok(raw)
}

func zip(raw string) Result {
	clean := strings.Join(strings.Fields(raw), "")
	if clean == "" {
		return reject("ZIP code is required")
	}
	if !zipRe.MatchString(clean) {
		return reject("ZIP code must be 4 digits (e.g., 2000)")
	}
	if clean == "0000" {
		return reject("Please enter a valid South African postal code")
	}
	return ok(clean)
}

func number(raw string, min, max int) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return reject("This field is required")
	}
	v, err := strconv.Atoi(leadingInteger(raw))
	if err != nil {
		return reject("Please enter a valid number")
	}
	if v < min {
		return reject(fmt.Sprintf("Value must be at least %d", min))
	}
	if v > max {
		return reject(fmt.Sprintf("Value must be less than %d", max))
	}
	return ok(v)
}

// leadingInteger keeps the optional sign and the digits that prefix s ("12 people" -> "12").
func leadingInteger(s string) string {
	end := 0
	for i, c := range s {
		if (i == 0 && c == '-') || unicode.IsDigit(c) {
			end = i + utf8.RuneLen(c)
			continue
		}
		break
	}
	return s[:end]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func calendarDate(year, month, day int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t, t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
