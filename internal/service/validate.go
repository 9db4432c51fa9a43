package service

import (
	"regexp"

	"github.com/folio/backend/internal/model"
	"github.com/go-playground/validator/v10"
)

// Error strings returned to the client, one per failed rule.
const (
	MsgNameLength     = "Name must be between 2 and 100 characters."
	MsgNameCharacters = "Name contains invalid characters."
	MsgEmailInvalid   = "Please enter a valid email address."
	MsgSubjectLength  = "Subject must be between 5 and 200 characters."
	MsgMessageLength  = "Message must be between 10 and 2000 characters."
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-Z` + jsSpace + `'-]+$`)
	basicEmailPattern = regexp.MustCompile(`^[^` + jsSpace + `@]+@[^` + jsSpace + `@]+\.[^` + jsSpace + `@]+$`)
)

// rule is one independently reported check. Lengths are counted in
// characters (runes), which is how validator's min/max treat strings.
type rule struct {
	field func(model.SubmissionInput) string
	tag   string
	msg   string
}

var rules = []rule{
	{func(in model.SubmissionInput) string { return in.Name.Value }, "min=2,max=100", MsgNameLength},
	{func(in model.SubmissionInput) string { return in.Name.Value }, "personname", MsgNameCharacters},
	{func(in model.SubmissionInput) string { return in.Email.Value }, "basicemail,max=255", MsgEmailInvalid},
	{func(in model.SubmissionInput) string { return in.Subject.Value }, "min=5,max=200", MsgSubjectLength},
	{func(in model.SubmissionInput) string { return in.Message.Value }, "min=10,max=2000", MsgMessageLength},
}

// Validator checks sanitized contact input.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the personname and basicemail tags.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return basicEmailPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate evaluates every rule and returns the messages of all that fail,
// in a fixed order. An empty result means in is valid.
func (val *Validator) Validate(in model.SubmissionInput) []string {
	var errs []string
	for _, r := range rules {
		if err := val.v.Var(r.field(in), r.tag); err != nil {
			errs = append(errs, r.msg)
		}
	}
	return errs
}
