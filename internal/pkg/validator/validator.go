// Package validator provides value and struct validation
// on top of the go-playground/validator library.
package validator

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type Validator interface {
	Validate(ctx context.Context, value any) error
	ValidateValue(ctx context.Context, value any, tag string) error
}

// Rule is a custom validation rule.
type Rule struct {
	Tag  string
	Func validator.Func
}

type wrapper struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New(rules ...Rule) Validator {
	validate := validator.New()

	// Register the default EN translator.
	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(errors.New("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(errors.PrefixError(err, "translator was not registered"))
	}

	// Duration bounds used by configuration structures.
	rules = append([]Rule{
		{Tag: "minDuration", Func: durationRule(func(v, param time.Duration) bool { return v >= param })},
		{Tag: "maxDuration", Func: durationRule(func(v, param time.Duration) bool { return v <= param })},
	}, rules...)

	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.Tag, rule.Func); err != nil {
			panic(err)
		}
	}

	// Use JSON field names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &wrapper{validate: validate, translator: translator}
}

func (w *wrapper) Validate(ctx context.Context, value any) error {
	return w.handleError(w.validate.StructCtx(ctx, value))
}

func (w *wrapper) ValidateValue(ctx context.Context, value any, tag string) error {
	return w.handleError(w.validate.VarCtx(ctx, value, tag))
}

func (w *wrapper) handleError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// An invalid validation tag is a developer error.
		panic(err)
	}

	errs := errors.NewMultiError()
	for _, e := range validationErrs {
		// Strip the root struct name from the namespace.
		path := e.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		errs.Append(errors.Errorf(`"%s": %s`, path, e.Translate(w.translator)))
	}
	return errs.ErrorOrNil()
}

func durationRule(cmp func(v, param time.Duration) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v, ok := fl.Field().Interface().(time.Duration)
		if !ok {
			return false
		}
		param, err := time.ParseDuration(fl.Param())
		if err != nil {
			return false
		}
		return cmp(v, param)
	}
}
