package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Submission represents a contact message that passed sanitization and
// validation and is ready to be (or has been) persisted.
type Submission struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   *string   `json:"user_agent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionInput is the JSON body of POST /api/contact.
// Every field is optional on the wire; presence is checked explicitly.
type SubmissionInput struct {
	Name    FormField `json:"name"`
	Email   FormField `json:"email"`
	Subject FormField `json:"subject"`
	Message FormField `json:"message"`
}

// Complete reports whether all four fields were supplied with a non-empty value.
func (in SubmissionInput) Complete() bool {
	return in.Name.Present && in.Email.Present && in.Subject.Present && in.Message.Present
}

// FormField is a single form value of unknown JSON type.
//
// null, "", false and 0 count as missing. Any other non-string value counts
// as present but carries no text, so it sanitizes to "".
type FormField struct {
	Value   string
	Present bool
}

// Text wraps s as a field; "" counts as missing.
func Text(s string) FormField {
	return FormField{Value: s, Present: s != ""}
}

func (f *FormField) UnmarshalJSON(data []byte) error {
	*f = FormField{}
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Text(s)
		return nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		f.Present = n != 0
		return nil
	default:
		// true, objects and arrays
		f.Present = true
		return nil
	}
}

func (f FormField) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
