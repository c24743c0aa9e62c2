package validation

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Registration struct {
	Name     string
	Email    string
	Password string
}

type Credentials struct {
	Email    string
	Password string
}

type InvoiceDraft struct {
	ClientID  uuid.UUID
	IssueDate time.Time
	DueDate   time.Time
	Notes     string
	Items     []ItemDraft
}

type ItemDraft struct {
	ProductID uuid.UUID
	Quantity  int
}

type registrationForm struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,bcryptlen"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type clientForm struct {
	Name               string `form:"name" validate:"required"`
	Email              string `form:"email" validate:"required,email"`
	Phone              string `form:"phone"`
	Address            string `form:"address"`
	LegalName          string `form:"legal_name"`
	TaxID              string `form:"tax_id"`
	RegistrationNumber string `form:"registration_number"`
	DutyID             string `form:"duty_id"`
	BusinessActivity   string `form:"business_activity"`
	Type               string `form:"type" validate:"oneof=NATURAL JURIDICAL"`
}

type settingsForm struct {
	Name               string `form:"name" validate:"required"`
	Email              string `form:"email" validate:"required,email"`
	LegalName          string `form:"legal_name"`
	TaxID              string `form:"tax_id"`
	RegistrationNumber string `form:"registration_number"`
	BusinessActivity   string `form:"business_activity"`
	Address            string `form:"address"`
	Phone              string `form:"phone"`
}

type productForm struct {
	Name        string `form:"name" validate:"required"`
	Price       string `form:"price" validate:"required,amount"`
	Description string `form:"description"`
	Unit        string `form:"unit" validate:"required"`
}

type invoiceForm struct {
	ClientID  string     `form:"client_id" validate:"required,uuid"`
	IssueDate string     `form:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate   string     `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string     `form:"notes"`
	Items     []itemForm `form:"items" validate:"required,min=1,dive"`
}

type itemForm struct {
	ProductID string `json:"product_id" form:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" form:"quantity" validate:"gte=1,lte=1000000"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (v *Validator) Register(in Input) (Registration, error) {
	f := registrationForm{
		Name:     in.Get("name"),
		Email:    normalizeEmail(in.Get("email")),
		Password: in.Raw("password"),
	}
	if err := v.check(f); err != nil {
		return Registration{}, err
	}
	return Registration(f), nil
}

func (v *Validator) Login(in Input) (Credentials, error) {
	f := loginForm{
		Email:    normalizeEmail(in.Get("email")),
		Password: in.Raw("password"),
	}
	if err := v.check(f); err != nil {
		return Credentials{}, err
	}
	return Credentials(f), nil
}

// Client returns an unowned client draft; the caller stamps the owner.
func (v *Validator) Client(in Input) (domain.Client, error) {
	f := clientForm{
		Name:               in.Get("name"),
		Email:              normalizeEmail(in.Get("email")),
		Phone:              in.Get("phone"),
		Address:            in.Get("address"),
		LegalName:          in.Get("legal_name"),
		TaxID:              in.Get("tax_id"),
		RegistrationNumber: in.Get("registration_number"),
		DutyID:             in.Get("duty_id"),
		BusinessActivity:   in.Get("business_activity"),
		Type:               strings.ToUpper(in.Get("type")),
	}
	if f.Type == "" {
		f.Type = string(domain.ClientTypeNatural)
	}
	if err := v.check(f); err != nil {
		return domain.Client{}, err
	}
	return domain.Client{
		Name:               f.Name,
		Email:              f.Email,
		Phone:              f.Phone,
		Address:            f.Address,
		LegalName:          f.LegalName,
		TaxID:              f.TaxID,
		RegistrationNumber: f.RegistrationNumber,
		DutyID:             f.DutyID,
		BusinessActivity:   f.BusinessActivity,
		Type:               domain.ClientType(f.Type),
	}, nil
}

func (v *Validator) Settings(in Input) (domain.Settings, error) {
	f := settingsForm{
		Name:               in.Get("name"),
		Email:              normalizeEmail(in.Get("email")),
		LegalName:          in.Get("legal_name"),
		TaxID:              in.Get("tax_id"),
		RegistrationNumber: in.Get("registration_number"),
		BusinessActivity:   in.Get("business_activity"),
		Address:            in.Get("address"),
		Phone:              in.Get("phone"),
	}
	if err := v.check(f); err != nil {
		return domain.Settings{}, err
	}
	return domain.Settings(f), nil
}

func (v *Validator) Product(in Input) (domain.Product, error) {
	f := productForm{
		Name:        in.Get("name"),
		Price:       in.Get("price"),
		Description: in.Get("description"),
		Unit:        in.Get("unit"),
	}
	if f.Unit == "" {
		f.Unit = "unit"
	}
	if err := v.check(f); err != nil {
		return domain.Product{}, err
	}
	cents, _ := ParseCents(f.Price)
	return domain.Product{
		Name:        f.Name,
		Description: f.Description,
		Unit:        f.Unit,
		PriceCents:  cents,
	}, nil
}

func (v *Validator) Invoice(in Input) (InvoiceDraft, error) {
	f := invoiceForm{
		ClientID:  in.Get("client_id"),
		IssueDate: in.Get("issue_date"),
		DueDate:   in.Get("due_date"),
		Notes:     in.Get("notes"),
	}

	var extra []domain.FieldError
	if raw := in.Get("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.Items); err != nil {
			extra = append(extra, domain.FieldError{
				Field:   "items",
				Message: "items must be a JSON list of {product_id, quantity}",
			})
			// Keep required from firing twice.
			f.Items = []itemForm{{ProductID: uuid.Nil.String(), Quantity: 1}}
		}
	}

	issue, issueErr := time.Parse(dateLayout, f.IssueDate)
	due := issue
	if f.DueDate != "" {
		d, err := time.Parse(dateLayout, f.DueDate)
		if err == nil {
			due = d
			if issueErr == nil && due.Before(issue) {
				extra = append(extra, domain.FieldError{
					Field:   "due_date",
					Message: "due_date must not be before issue_date",
				})
			}
		}
	}

	if err := v.check(f, extra...); err != nil {
		return InvoiceDraft{}, err
	}

	draft := InvoiceDraft{
		ClientID:  uuid.MustParse(f.ClientID),
		IssueDate: issue,
		DueDate:   due,
		Notes:     f.Notes,
		Items:     make([]ItemDraft, 0, len(f.Items)),
	}
	for _, it := range f.Items {
		draft.Items = append(draft.Items, ItemDraft{ProductID: uuid.MustParse(it.ProductID), Quantity: it.Quantity})
	}
	return draft, nil
}

// ParseCents converts a decimal amount such as "12.5" into 1250.
func ParseCents(s string) (int64, bool) {
	if !amountPattern.MatchString(s) {
		return 0, false
	}
	whole, frac, _ := strings.Cut(s, ".")
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}
	c, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, false
	}
	return w*100 + c, true
}
