package crud

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate   = newValidator()
	cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
)

// GenericInvalid is used when a rule has no dedicated message.
const GenericInvalid = "Valor inválido."

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"digits": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			for _, r := range s {
				if r < '0' || r > '9' {
					return false
				}
			}
			return s != ""
		},
		"positive": func(fl validator.FieldLevel) bool {
			d, err := ParseDecimal(fl.Field().String())
			return err == nil && d.IsPositive()
		},
		"nonneg": func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Field().String())
			return err == nil && n >= 0
		},
		"percent": func(fl validator.FieldLevel) bool {
			d, err := ParseDecimal(fl.Field().String())
			return err == nil && d.IsPositive() && d.LessThanOrEqual(decimal.NewFromInt(100))
		},
		"cpf": func(fl validator.FieldLevel) bool {
			return cpfPattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// Check validates input and translates failures through messages, keyed
// "field.tag". A nil result means input is valid.
func Check(input any, messages map[string]string) FieldErrors {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = GenericInvalid
		}
		out[field] = msg
	}
	return out
}

// ParseDecimal reads a user-typed number, accepting a decimal comma.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(NormalizeDecimal(raw))
}

// NormalizeDecimal trims raw and turns a decimal comma into a dot.
func NormalizeDecimal(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
}
