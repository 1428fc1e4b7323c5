package analyses

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Issue   string `json:"issue"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a Request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Issue)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("industry", func(fl validator.FieldLevel) bool {
		_, err := ParseIndustry(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("experience", func(fl validator.FieldLevel) bool {
		_, err := ParseExperienceLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks text length, enum membership and job description length.
// It returns a *ValidationError listing every failing field.
func Validate(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, toFieldError(fe))
	}
	return out
}

func toFieldError(fe validator.FieldError) FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return FieldError{Field: field, Issue: "required", Message: "O texto do currículo é obrigatório"}
	case "min":
		return FieldError{Field: field, Issue: "too_short", Message: fmt.Sprintf("O currículo deve ter pelo menos %s caracteres", fe.Param())}
	case "max":
		if field == "jobDescription" {
			return FieldError{Field: field, Issue: "too_long", Message: fmt.Sprintf("A descrição da vaga deve ter no máximo %s caracteres", fe.Param())}
		}
		return FieldError{Field: field, Issue: "too_long", Message: fmt.Sprintf("O currículo deve ter no máximo %s caracteres", fe.Param())}
	case "industry":
		return FieldError{Field: field, Issue: "invalid_enum", Message: "Área inválida. Valores aceitos: " + joinCodes(Industries())}
	case "experience":
		return FieldError{Field: field, Issue: "invalid_enum", Message: "Nível de experiência inválido. Valores aceitos: " + joinCodes(ExperienceLevels())}
	default:
		return FieldError{Field: field, Issue: fe.Tag(), Message: "Valor inválido"}
	}
}

func joinCodes[T ~string](codes []T) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func withoutField(err error, field string) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	kept := make([]FieldError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		if f.Field != field {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &ValidationError{Fields: kept}
}
