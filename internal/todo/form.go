// ABOUTME: Todo form binding and validation
// ABOUTME: Parses posted fields, checks them with validator struct tags, and maps failures to field messages

package todo

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/2389/todo-web/internal/store"
)

// DateLayout is the dd/MM/yyyy format used for target dates in forms.
const DateLayout = "02/01/2006"

// Field error messages shown next to the form inputs.
const (
	MsgDescTooShort = "Enter at least 10 Characters..."
	MsgInvalidDate  = "Invalid date, use dd/MM/yyyy"
)

// ErrMalformedID is returned when the id parameter is not an integer.
var ErrMalformedID = errors.New("malformed id")

// Form is the editable view of a todo as submitted by the browser.
// TargetDate stays a raw string so a rejected value can be redisplayed.
type Form struct {
	ID         int    `form:"id"`
	Desc       string `form:"desc" validate:"min=10"`
	TargetDate string `form:"targetDate" validate:"ddmmyyyy"`
	Done       bool   `form:"done"`
}

// FieldErrors maps form field names to their error message.
type FieldErrors map[string]string

// ParseID parses an id request parameter. An empty value is zero.
func ParseID(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, raw)
	}
	return id, nil
}

// ParseForm binds posted values into a Form. Only a malformed id fails
// binding; everything else is left to validation.
func ParseForm(values url.Values) (Form, error) {
	id, err := ParseID(values.Get("id"))
	if err != nil {
		return Form{}, err
	}
	return Form{
		ID:         id,
		Desc:       values.Get("desc"),
		TargetDate: strings.TrimSpace(values.Get("targetDate")),
		Done:       checked(values.Get("done")),
	}, nil
}

func checked(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// FormFromTodo fills a form with a stored todo.
func FormFromTodo(t *store.Todo) Form {
	f := Form{ID: t.ID, Desc: t.Desc, Done: t.Done}
	if !t.TargetDate.IsZero() {
		f.TargetDate = t.TargetDate.Format(DateLayout)
	}
	return f
}

// Date returns the parsed target date.
func (f Form) Date() (time.Time, error) {
	return time.Parse(DateLayout, f.TargetDate)
}

// formValidator wraps validator with the form's custom tags and messages.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("ddmmyyyy", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return &formValidator{v: v}
}

// Validate returns nil when the form is acceptable.
func (fv *formValidator) Validate(f Form) FieldErrors {
	err := fv.v.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return MsgDescTooShort
	case "ddmmyyyy":
		return MsgInvalidDate
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
